package service

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"rivals-tracker/internal/domain"
)

var summaryLine = regexp.MustCompile(`^(\d+)\. Ban (.+?) - (.*)$`)

type SummaryEntry struct {
	Rank   int
	Hero   string
	Reason string
}

// RenderSummary writes one "<rank>. Ban <hero> - <reason>" line per entry.
func RenderSummary(recs []domain.BanRecommendation) string {
	var b strings.Builder
	for i, rec := range recs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. Ban %s - %s", i+1, rec.Hero.Name, rec.Reason)
	}
	return b.String()
}

// ParseSummary reads back what RenderSummary wrote. Lines that do not look
// like summary lines are skipped.
func ParseSummary(text string) []SummaryEntry {
	entries := []SummaryEntry{}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		m := summaryLine.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, SummaryEntry{Rank: rank, Hero: m[2], Reason: m[3]})
	}
	return entries
}
