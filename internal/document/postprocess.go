package document

import (
	"fmt"
	"sort"

	"github.com/jcdickinson/hyperhelp/internal/diag"
	"github.com/jcdickinson/hyperhelp/internal/help"
)

// NavAnchor is a navigation target in final text coordinates. Key is the
// label normalized the same way topic keys are.
type NavAnchor struct {
	Key  string `json:"key"`
	Span Span   `json:"span"`
}

// Result is the output of PostProcess. Every position refers to Text.
type Result struct {
	Text  string      `json:"text"`
	Nav   []NavAnchor `json:"nav"`
	Links []Span      `json:"links"`

	hidden []Span
}

// PostProcess strips the decoration from hidden anchors and builds the
// navigation list from hidden and visible anchors. Spans are given in the
// coordinates of text. Visible anchors and links keep their text and are
// moved into final coordinates. Spans that are out of range, overlap a hidden
// anchor, or are too short for their decoration are dropped with a warning.
func PostProcess(text string, links, visible, hidden []Span) (Result, []diag.Warning) {
	runes := []rune(text)
	length := len(runes)
	var warnings []diag.Warning
	warn := func(kind string, s Span, why string) {
		warnings = append(warnings, diag.Warning{
			Component: "document",
			Message:   fmt.Sprintf("ignoring %s anchor at %d..%d: %s", kind, s.Start, s.End, why),
		})
	}

	hidden = sortedSpans(hidden)
	kept := hidden[:0]
	for _, s := range hidden {
		switch {
		case s.Start < 0 || s.End > length:
			warn("hidden", s, "out of range")
		case s.Len() <= 2*decoration:
			warn("hidden", s, "no label inside decoration")
		case len(kept) > 0 && s.Start < kept[len(kept)-1].End:
			warn("hidden", s, "overlaps previous hidden anchor")
		default:
			kept = append(kept, s)
		}
	}
	hidden = kept

	nav := make([]NavAnchor, 0, len(hidden)+len(visible))

	// Strip bottom to top so each edit leaves the offsets of the anchors
	// still to be processed intact. An anchor moves back by the decoration of
	// every hidden anchor before it.
	for i := len(hidden) - 1; i >= 0; i-- {
		s := hidden[i]
		label := append([]rune(nil), runes[s.Start+decoration:s.End-decoration]...)
		runes = append(runes[:s.Start], append(label, runes[s.End:]...)...)

		shift := i * 2 * decoration
		nav = append(nav, NavAnchor{
			Key:  help.Normalize(string(label)),
			Span: Span{Start: s.Start - shift, End: s.End - shift - 2*decoration},
		})
	}

	res := Result{Text: string(runes), hidden: hidden}
	final := []rune(res.Text)

	for _, s := range sortedSpans(visible) {
		if ok, why := res.movable(s, length); !ok {
			warn("visible", s, why)
			continue
		}
		m := res.remapSpan(s)
		nav = append(nav, NavAnchor{Key: help.Normalize(string(final[m.Start:m.End])), Span: m})
	}
	for _, s := range sortedSpans(links) {
		if ok, why := res.movable(s, length); !ok {
			warnings = append(warnings, diag.Warning{
				Component: "document",
				Message:   fmt.Sprintf("ignoring link at %d..%d: %s", s.Start, s.End, why),
			})
			continue
		}
		res.Links = append(res.Links, res.remapSpan(s))
	}

	sort.SliceStable(nav, func(i, j int) bool {
		a, b := nav[i], nav[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Key < b.Key
	})
	res.Nav = nav
	return res, warnings
}

// Remap converts a position in the original text to the final text. A
// position inside hidden anchor decoration lands on the nearest label edge.
func (r Result) Remap(pos int) int {
	removed := 0
	for _, s := range r.hidden {
		if pos >= s.End {
			removed += 2 * decoration
			continue
		}
		if pos >= s.End-decoration {
			removed += decoration + pos - (s.End - decoration)
		} else if pos > s.Start {
			removed += min(pos-s.Start, decoration)
		}
		break
	}
	return pos - removed
}

func (r Result) remapSpan(s Span) Span {
	return Span{Start: r.Remap(s.Start), End: r.Remap(s.End)}
}

func (r Result) movable(s Span, length int) (bool, string) {
	if s.Start < 0 || s.End > length || s.Len() <= 0 {
		return false, "out of range"
	}
	for _, h := range r.hidden {
		if s.Start < h.End && h.Start < s.End {
			return false, "overlaps a hidden anchor"
		}
	}
	return true, ""
}

// sortedSpans returns a copy of spans ordered by position.
func sortedSpans(spans []Span) []Span {
	out := append([]Span(nil), spans...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}
