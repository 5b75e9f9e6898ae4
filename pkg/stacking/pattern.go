package stacking

import "fmt"

// Pattern is a stacking layout.
type Pattern int

const (
	Diagonal Pattern = iota
	Horizontal
	Vertical
)

var patternNames = [...]string{Diagonal: "diagonal", Horizontal: "horizontal", Vertical: "vertical"}

// Patterns lists every pattern in tie-break order.
func Patterns() []Pattern { return []Pattern{Diagonal, Horizontal, Vertical} }

// String returns the pattern's lowercase name.
func (p Pattern) String() string {
	if p < 0 || int(p) >= len(patternNames) {
		return fmt.Sprintf("pattern(%d)", int(p))
	}
	return patternNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(b []byte) error {
	for i, name := range patternNames {
		if name == string(b) {
			*p = Pattern(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stacking pattern %q", b)
}

// Advance returns the offset from an h×w object's corner to the next
// object's corner.
func (p Pattern) Advance(h, w int) (dr, dc int) {
	switch p {
	case Diagonal:
		return h - 1, w - 1
	case Horizontal:
		return 0, w
	case Vertical:
		return h, 0
	}
	return 0, 0
}

// Classify returns the first pattern whose advance from an h×w object
// equals (dr, dc).
func Classify(h, w, dr, dc int) (Pattern, bool) {
	for _, p := range Patterns() {
		if r, c := p.Advance(h, w); r == dr && c == dc {
			return p, true
		}
	}
	return 0, false
}
