package ocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHandles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"blank lines and padding", "Alice\n\nBob \n", []string{"Alice", "Bob"}},
		{"empty input", "", []string{}},
		{"whitespace only", "  \n\t\n   ", []string{}},
		{"duplicates kept in order", "Karage\nzed\nKarage", []string{"Karage", "zed", "Karage"}},
		{"carriage returns trimmed", "One\r\nTwo\r\n", []string{"One", "Two"}},
		{"inner spaces kept", "  Iron Fist Main  ", []string{"Iron Fist Main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHandles(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractHandlesNeverReturnsBlank(t *testing.T) {
	inputs := []string{
		"a\n \n b\n\n\nc",
		"\n\n\n",
		"x",
		"tab\t\n\t\ntrail   ",
	}
	for _, in := range inputs {
		got := ExtractHandles(in)
		assert.LessOrEqual(t, len(got), len(strings.Split(in, "\n")))
		for _, h := range got {
			assert.NotEmpty(t, strings.TrimSpace(h))
			assert.Equal(t, strings.TrimSpace(h), h)
		}
	}
}
