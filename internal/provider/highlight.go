package provider

import "strings"

// ParseHighlighted decodes the engine's highlight markup. A single '*'
// toggles emphasis and "**" is a literal '*'. It returns the plain text and
// the rune offset of every emphasised rune, ascending.
func ParseHighlighted(s string) (string, []int) {
	var (
		plain    strings.Builder
		spans    []int
		emphasis bool
		pos      int
	)
	plain.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '*' {
			if i+1 < len(runes) && runes[i+1] == '*' {
				i++
			} else {
				emphasis = !emphasis
				continue
			}
		}
		if emphasis {
			spans = append(spans, pos)
		}
		plain.WriteRune(r)
		pos++
	}
	return plain.String(), spans
}
