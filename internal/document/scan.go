// Package document turns rendered help text into a navigable document:
// hidden anchor decoration is stripped, anchors are collected into a sorted
// navigation list, and links are resolved against it on demand.
//
// All positions are rune offsets into the text, half-open [Start, End).
package document

import "unicode"

// Span is a half-open rune range.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether pos lies inside the span. The end position counts
// so a cursor placed just after a link still selects it.
func (s Span) Contains(pos int) bool { return pos >= s.Start && pos <= s.End }

// decoration is the width of the marker on each side of a hidden anchor.
const decoration = 2

// Markup is the set of spans found in a rendered help file, in the
// coordinates of the text it was scanned from.
type Markup struct {
	Links   []Span
	Visible []Span
	Hidden  []Span
}

// Scan finds help markup in text:
//
//	|topic|    link, span covers the label
//	*topic*    visible anchor, span covers the label
//	*|topic|*  hidden anchor, span covers label and decoration
//
// Markup never crosses a line break. Labels are never empty and never start
// or end with white space.
func Scan(text string) Markup {
	var m Markup
	runes := []rune(text)
	n := len(runes)

	for i := 0; i < n; i++ {
		switch runes[i] {
		case '*':
			if i+1 < n && runes[i+1] == '|' {
				if end := closing(runes, i+2, '|', '*'); end > i+2 && tight(runes[i+2:end]) {
					m.Hidden = append(m.Hidden, Span{Start: i, End: end + 2})
					i = end + 1
					continue
				}
			}
			if end := closing(runes, i+1, '*', 0); end > i+1 && tight(runes[i+1:end]) {
				m.Visible = append(m.Visible, Span{Start: i + 1, End: end})
				i = end
			}
		case '|':
			if end := closing(runes, i+1, '|', 0); end > i+1 && tight(runes[i+1:end]) {
				m.Links = append(m.Links, Span{Start: i + 1, End: end})
				i = end
			}
		}
	}
	return m
}

// closing returns the index of the first a (followed by b when b is non-zero)
// at or after from on the same line, or -1.
func closing(runes []rune, from int, a, b rune) int {
	for j := from; j < len(runes); j++ {
		switch runes[j] {
		case '\n':
			return -1
		case a:
			if b == 0 {
				return j
			}
			if j+1 < len(runes) && runes[j+1] == b {
				return j
			}
		}
	}
	return -1
}

func tight(label []rune) bool {
	return !unicode.IsSpace(label[0]) && !unicode.IsSpace(label[len(label)-1])
}
