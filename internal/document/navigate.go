package document

import "github.com/jcdickinson/hyperhelp/internal/help"

// Direction selects which way FindAdjacentAnchor scans.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// FindAdjacentAnchor returns the nearest anchor after (Forward) or before
// (Backward) cursor, wrapping to the first or last anchor when there is none
// in that direction. nav must be sorted by start. It reports false only when
// nav is empty.
func FindAdjacentAnchor(nav []NavAnchor, cursor int, dir Direction) (NavAnchor, bool) {
	if len(nav) == 0 {
		return NavAnchor{}, false
	}
	if dir == Backward {
		for i := len(nav) - 1; i >= 0; i-- {
			if nav[i].Span.Start < cursor {
				return nav[i], true
			}
		}
		return nav[len(nav)-1], true
	}
	for _, a := range nav {
		if a.Span.Start > cursor {
			return a, true
		}
	}
	return nav[0], true
}

// ResolveLink returns the first anchor whose key matches the link text.
func ResolveLink(text string, nav []NavAnchor) (NavAnchor, bool) {
	key := help.Normalize(text)
	for _, a := range nav {
		if a.Key == key {
			return a, true
		}
	}
	return NavAnchor{}, false
}
