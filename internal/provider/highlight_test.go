package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHighlighted(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPlain string
		wantSpans []int
	}{
		{"no markup", "report.pdf", "report.pdf", nil},
		{"prefix", "*rep*ort.pdf", "report.pdf", []int{0, 1, 2}},
		{"middle", "an*nual*.txt", "annual.txt", []int{2, 3, 4, 5}},
		{"two runs", "*a*b*c*", "abc", []int{0, 2}},
		{"literal star", "a**b", "a*b", nil},
		{"literal star inside emphasis", "*a**b*", "a*b", []int{0, 1, 2}},
		{"unterminated emphasis", "ab*cd", "abcd", []int{2, 3}},
		{"runes not bytes", "*été*.md", "été.md", []int{0, 1, 2}},
		{"path", `C:\*Users*\x`, `C:\Users\x`, []int{3, 4, 5, 6, 7}},
		{"empty", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain, spans := ParseHighlighted(tt.input)

			assert.Equal(t, tt.wantPlain, plain)
			assert.Equal(t, tt.wantSpans, spans)
		})
	}
}

func TestParseHighlighted_OffsetsAreValidIndices(t *testing.T) {
	inputs := []string{"*a*", "x*yz*", "***", "**a**", "*日本*語"}
	for _, in := range inputs {
		plain, spans := ParseHighlighted(in)
		n := len([]rune(plain))
		for _, s := range spans {
			assert.True(t, s >= 0 && s < n, "offset %d out of range for %q", s, plain)
		}
	}
}
