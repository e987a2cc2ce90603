package ast

import (
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// CastKind enumerates the four checked-coercion operators (spec §3
// Instruction.Cast).
type CastKind int

const (
	CastLet CastKind = iota
	CastCast
	CastAssertType
	CastMust
)

// Cast is a checked coercion of Arg to a static type.
type Cast struct {
	Arg      Node
	Type     string // the teacher's types.SemType has no analogue here; the static type is opaque to this pass
	Kind     CastKind
	Location source.Location
}

func (c *Cast) astNode() {}
func (c *Cast) Loc() source.Location { return c.Location }

// ArgFlags describes the shape of one iterator-block parameter (spec §3
// SendAndBlockLink).
type ArgFlags struct {
	IsKeyword  bool
	IsRepeated bool
	IsDefault  bool
	IsShadow   bool
}

// BlockParam is one parameter of an iterator block. Var is the
// resolver-assigned local identity for Name, the same identity the block
// body's references to it carry as plain *Local nodes (builder_walk.cc:
// 347,356,369 bind arg.local, not a throwaway — mirrors RescueCase.Var).
type BlockParam struct {
	Name  string
	Var   symbols.LocalVariable
	Flags ArgFlags
}

// Block is an iterator block attached to a Send. It only ever appears as
// Send.Block; a Block reached directly by the walker's dispatch is the
// "bare Block" forbidden variant (spec §4.3 "Forbidden/unreachable
// variants").
type Block struct {
	Params   []BlockParam
	Body     Node
	Location source.Location
}

func (b *Block) astNode() {}
func (b *Block) Loc() source.Location { return b.Location }

// Send is a method call, optionally with an attached iterator Block (spec
// §4.3 "Iterator-block call" and "Plain Send").
type Send struct {
	Receiver Node
	Method   string
	Args     []Node
	Block    *Block // nil for a plain call
	Private  bool
	Location source.Location
}

func (s *Send) astNode() {}
func (s *Send) Loc() source.Location { return s.Location }

// Array is an array literal.
type Array struct {
	Elements []Node
	Location source.Location
}

func (a *Array) astNode() {}
func (a *Array) Loc() source.Location { return a.Location }

// HashPair is one key/value entry of a Hash literal.
type HashPair struct {
	Key   Node
	Value Node
}

// Hash is a hash literal.
type Hash struct {
	Pairs    []HashPair
	Location source.Location
}

func (h *Hash) astNode() {}
func (h *Hash) Loc() source.Location { return h.Location }

// ClassDef and MethodDef must never reach the lowering pass: FlattenWalk
// (an external, prior pass) removes class/method bodies from the tree
// before the CFG builder runs (spec §4.3 "Forbidden/unreachable variants").
// They exist here only so the walker's internal-error path has a concrete
// type to name when an upstream invariant is violated.
type ClassDef struct {
	Location source.Location
}

func (c *ClassDef) astNode() {}
func (c *ClassDef) Loc() source.Location { return c.Location }

type MethodDef struct {
	Location source.Location
}

func (m *MethodDef) astNode() {}
func (m *MethodDef) Loc() source.Location { return m.Location }
