package document

import (
	"errors"
	"fmt"

	"github.com/jcdickinson/hyperhelp/internal/diag"
)

// ErrTopicNotFound is returned when a link names no anchor in the document.
var ErrTopicNotFound = errors.New("topic not found")

// ErrNoLink is returned when the cursor is not on a link.
var ErrNoLink = errors.New("no link at cursor")

// Document is a post-processed help file ready for navigation.
type Document struct {
	Package string      `json:"package,omitempty"`
	File    string      `json:"file,omitempty"`
	Text    string      `json:"text"`
	Nav     []NavAnchor `json:"nav"`
	Links   []Span      `json:"links"`
}

// Parse scans rendered help text for markup and post-processes it.
func Parse(pkg, file, text string) (*Document, []diag.Warning) {
	m := Scan(text)
	res, warnings := PostProcess(text, m.Links, m.Visible, m.Hidden)
	return &Document{
		Package: pkg,
		File:    file,
		Text:    res.Text,
		Nav:     res.Nav,
		Links:   res.Links,
	}, warnings
}

// LinkAt returns the link under pos.
func (d *Document) LinkAt(pos int) (Span, bool) {
	for _, l := range d.Links {
		if l.Contains(pos) {
			return l, true
		}
	}
	return Span{}, false
}

// Slice returns the text covered by s.
func (d *Document) Slice(s Span) string {
	runes := []rune(d.Text)
	if s.Start < 0 || s.End > len(runes) || s.Start > s.End {
		return ""
	}
	return string(runes[s.Start:s.End])
}

// FollowLink resolves the link under pos to an anchor in this document.
// The returned label is the link text, which callers may look up elsewhere
// when the error is ErrTopicNotFound.
func (d *Document) FollowLink(pos int) (NavAnchor, string, error) {
	link, ok := d.LinkAt(pos)
	if !ok {
		return NavAnchor{}, "", ErrNoLink
	}
	label := d.Slice(link)
	a, ok := ResolveLink(label, d.Nav)
	if !ok {
		return NavAnchor{}, label, fmt.Errorf("%w: '%s'", ErrTopicNotFound, label)
	}
	return a, label, nil
}

// NextAnchor returns the anchor after pos, wrapping to the first.
func (d *Document) NextAnchor(pos int) (NavAnchor, bool) {
	return FindAdjacentAnchor(d.Nav, pos, Forward)
}

// PrevAnchor returns the anchor before pos, wrapping to the last.
func (d *Document) PrevAnchor(pos int) (NavAnchor, bool) {
	return FindAdjacentAnchor(d.Nav, pos, Backward)
}
