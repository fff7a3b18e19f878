package ocr

import "strings"

// ExtractHandles turns recognized text into candidate player handles, one per
// non-blank line, in the order they appear. Duplicates are kept.
func ExtractHandles(text string) []string {
	handles := []string{}
	for _, line := range strings.Split(text, "\n") {
		if handle := strings.TrimSpace(line); handle != "" {
			handles = append(handles, handle)
		}
	}
	return handles
}
