// Package instr defines the three-address instruction set the lowering
// pass emits into basic blocks (spec §3 Instruction, §4.1). The set is
// closed: exactly the variants named below, each writing one destination
// local via the enclosing Entry, never naming its own output.
package instr

import (
	"cfglower/internal/ast"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// Instruction is the payload half of an (dest, loc, instruction) triple.
// The set of implementations is closed and exhaustively switched over by
// any downstream consumer; there is no dispatch method beyond the marker.
type Instruction interface {
	instr()
}

// Literal produces a compile-time-known value.
type Literal struct {
	Kind  ast.LiteralKind
	Value string
}

func (Literal) instr() {}

// Ident copies the value of another local.
type Ident struct {
	Source symbols.LocalVariable
}

func (Ident) instr() {}

// Alias yields "the value of this global/constant slot".
type Alias struct {
	Symbol symbols.GlobalSymbol
}

func (Alias) instr() {}

// Send dispatches a call. Link is non-nil exactly when this Send has an
// attached iterator block (spec §3 SendAndBlockLink).
type Send struct {
	Receiver symbols.LocalVariable
	Method   string
	Args     []symbols.LocalVariable
	ArgLocs  []source.Location
	Private  bool
	Link     *SendAndBlockLink
}

func (Send) instr() {}

// SolveConstraint resolves generic constraints after an iterator-block
// call and selects its result.
type SolveConstraint struct {
	Link    *SendAndBlockLink
	PreCall symbols.LocalVariable
}

func (SolveConstraint) instr() {}

// LoadSelf restores `self` as captured by the block at the point the
// iterator call was made.
type LoadSelf struct {
	Link      *SendAndBlockLink
	OuterSelf symbols.LocalVariable
}

func (LoadSelf) instr() {}

// LoadYieldParams yields the tuple of parameters passed to this invocation
// of the iterator body.
type LoadYieldParams struct {
	Link *SendAndBlockLink
}

func (LoadYieldParams) instr() {}

// BlockReturn is the last value produced by one run of an iterator body.
type BlockReturn struct {
	Link  *SendAndBlockLink
	Value symbols.LocalVariable
}

func (BlockReturn) instr() {}

// Return is a method return.
type Return struct {
	Value symbols.LocalVariable
}

func (Return) instr() {}

// Cast is a checked coercion.
type Cast struct {
	Source symbols.LocalVariable
	Type   string
	Kind   ast.CastKind
}

func (Cast) instr() {}

// TAbsurd asserts exhaustiveness: Source must be statically uninhabited.
type TAbsurd struct {
	Source symbols.LocalVariable
}

func (TAbsurd) instr() {}

// Unanalyzable produces an opaque value that blocks type propagation; used
// to model coarse exceptional joins (spec §4.1, GLOSSARY).
type Unanalyzable struct{}

func (Unanalyzable) instr() {}

// SendAndBlockLink is the shared, identity-equal handle tying one
// call-with-iterator-block to its body's LoadSelf/LoadYieldParams/
// BlockReturn instructions and its trailing SolveConstraint (spec §3, I5).
// It must be allocated once with `new` (or equivalent) and passed by
// pointer; two links are the same link iff they are the same pointer.
type SendAndBlockLink struct {
	Method      string
	ParamFlags  []ast.ArgFlags
	RubyBlockID int
}
