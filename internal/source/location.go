// Package source provides the minimal source-span type the lowering pass
// attaches to every instruction and block for downstream diagnostics.
package source

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int
	Column int
}

// Location is a half-open span of source text. A Location with a zero-width
// span (Start == End) marks a compiler-synthesized span: something the
// lowering pass inserted that does not correspond to user-written text, and
// which IDE-facing queries should treat as invisible.
type Location struct {
	Filename string
	Start    Position
	End      Position
}

// None is the absent location, used only where a caller has no better
// anchor (the builder prefers zero-width spans derived from a real anchor
// over None wherever possible).
var None = Location{}

// ZeroWidth returns a synthetic, zero-length location anchored at the start
// of loc, used for every instruction the walker inserts that has no direct
// source counterpart.
func ZeroWidth(loc Location) Location {
	return Location{Filename: loc.Filename, Start: loc.Start, End: loc.Start}
}

// IsSynthetic reports whether loc has zero width, i.e. was produced by
// ZeroWidth rather than copied from real source text.
func (l Location) IsSynthetic() bool {
	return l.Start == l.End
}

func (l Location) String() string {
	if l == None {
		return "<none>"
	}
	if l.Start == l.End {
		return fmt.Sprintf("%s:%d:%d (synthetic)", l.Filename, l.Start.Line, l.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.Filename, l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}
