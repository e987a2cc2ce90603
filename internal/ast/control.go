package ast

import (
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// Assign represents `lhs = rhs`. Lhs must, after name resolution, be one of
// *ConstantLit, *Field, *Local, or *UnresolvedIdent (spec §4.3 Assignment);
// any other Lhs type reaching the walker is an internal error.
type Assign struct {
	Lhs      Node
	Rhs      Node
	Location source.Location
}

func (a *Assign) astNode() {}
func (a *Assign) Loc() source.Location { return a.Location }

// InsSeq is a sequence of statements followed by a final expression whose
// value is the sequence's value (spec §4.3 Sequencing).
type InsSeq struct {
	Stats    []Node
	Expr     Node
	Location source.Location
}

func (i *InsSeq) astNode() {}
func (i *InsSeq) Loc() source.Location { return i.Location }

// If is a conditional with two arms; Else may be *EmptyTree.
type If struct {
	Cond     Node
	Then     Node
	Else     Node
	Location source.Location
}

func (i *If) astNode() {}
func (i *If) Loc() source.Location { return i.Location }

// While is a pre-test loop; spec §4.3 "While loop".
type While struct {
	Cond     Node
	Body     Node
	Location source.Location
}

func (w *While) astNode() {}
func (w *While) Loc() source.Location { return w.Location }

// Return is a method return.
type Return struct {
	Expr     Node
	Location source.Location
}

func (r *Return) astNode() {}
func (r *Return) Loc() source.Location { return r.Location }

// Next is non-local control transfer to the top of the innermost loop or
// iterator-block body.
type Next struct {
	Expr     Node
	Location source.Location
}

func (n *Next) astNode() {}
func (n *Next) Loc() source.Location { return n.Location }

// Break is non-local control transfer out of the innermost loop or
// iterator-block call.
type Break struct {
	Expr     Node
	Location source.Location
}

func (b *Break) astNode() {}
func (b *Break) Loc() source.Location { return b.Location }

// Retry re-enters the innermost enclosing rescue's protected body.
type Retry struct {
	Location source.Location
}

func (r *Retry) astNode() {}
func (r *Retry) Loc() source.Location { return r.Location }

// RescueCase is one `rescue C1, C2 => name` clause. Classes is empty when
// the source listed no explicit exception classes, in which case the
// walker treats it as a singleton list naming the standard-error symbol
// for the duration of lowering (SPEC_FULL.md; no AST mutation). Var is the
// resolver-assigned local identity for `name`, the same identity the
// handler body's references to it resolve to as plain *Local nodes
// (builder_walk.cc:534-537 binds and is_a?-checks this same local, not a
// throwaway).
type RescueCase struct {
	Classes  []Node
	Var      symbols.LocalVariable
	Body     Node
	Location source.Location
}

// Rescue is `begin body rescue ... else ... ensure ... end` (spec §4.3
// Rescue, the most intricate lowering).
type Rescue struct {
	Body     Node
	Cases    []RescueCase
	Else     Node
	Ensure   Node
	Location source.Location
}

func (r *Rescue) astNode() {}
func (r *Rescue) Loc() source.Location { return r.Location }
