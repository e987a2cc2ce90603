// Package ast defines the resolved input tree the lowering pass consumes: a
// desugared, name-resolved method body where classes, methods, constants,
// and locals have already been interned by the namer/resolver (spec §1,
// §3). The namer/resolver itself is an external collaborator; this package
// only shapes what it hands to the walker.
package ast

import (
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// Node is the base interface implemented by every AST node the walker can
// dispatch on. The set of implementations is closed and exhaustively
// switched over in internal/lower; there is no virtual dispatch (spec §9:
// "closed tagged sum").
type Node interface {
	Loc() source.Location
	astNode()
}

// LiteralKind enumerates the compile-time-known literal shapes.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralSymbol
	LiteralBool
	LiteralNil
	LiteralSelf // `self` as a literal keyword, not the reserved local directly
)

// Literal is a compile-time-known constant.
type Literal struct {
	Kind     LiteralKind
	Value    string
	Location source.Location
}

func (l *Literal) astNode() {}
func (l *Literal) Loc() source.Location { return l.Location }

// Local references an already-declared local variable by the identity the
// namer assigned it.
type Local struct {
	Var      symbols.LocalVariable
	Location source.Location
}

func (l *Local) astNode() {}
func (l *Local) Loc() source.Location { return l.Location }

// Field is a resolved instance/class variable reference: the namer has
// already proven it's declared and attached the global identity it aliases
// to. UnresolvedIdent (below) is its unresolved counterpart, which the
// walker itself must resolve.
type Field struct {
	Symbol   symbols.GlobalSymbol
	Location source.Location
}

func (f *Field) astNode() {}
func (f *Field) Loc() source.Location { return f.Location }

// UnresolvedIdent is an instance or class variable the namer could not
// prove declared anywhere in the enclosing class chain at name-resolution
// time; the walker performs one more resolution attempt against the class
// table and reports UndeclaredVariable if that also fails (spec §4.3).
type UnresolvedIdent struct {
	Kind     symbols.VariableKind
	Name     string
	Class    *symbols.ClassInfo
	Location source.Location
}

func (u *UnresolvedIdent) astNode() {}
func (u *UnresolvedIdent) Loc() source.Location { return u.Location }

// ConstantLit is a resolved reference to a constant or class. Scope, when
// non-nil, is the original (pre-resolution) qualifying expression
// (`Foo::Bar` in `Foo::Bar::BAZ`); it exists purely so IDE/hover queries see
// it walked, and its lowered value is discarded (SPEC_FULL.md "ConstantLit
// with a non-trivial scope expression").
type ConstantLit struct {
	Symbol   symbols.GlobalSymbol
	IsStub   bool // resolution failed; lowers to Alias(untyped) regardless of Symbol
	Scope    Node
	Location source.Location
}

func (c *ConstantLit) astNode() {}
func (c *ConstantLit) Loc() source.Location { return c.Location }

// UnresolvedConstantLit marks a constant the namer/resolver should have
// eliminated before the walker ever sees it. It is never expected to reach
// the lowering pass (spec §4.3 "Forbidden/unreachable variants"); its only
// purpose is to give the internal-error path a concrete type to name.
type UnresolvedConstantLit struct {
	Location source.Location
}

func (u *UnresolvedConstantLit) astNode() {}
func (u *UnresolvedConstantLit) Loc() source.Location { return u.Location }

// EmptyTree is the AST's empty statement/expression, e.g. a missing else
// branch or an absent ensure clause.
type EmptyTree struct {
	Location source.Location
}

func (e *EmptyTree) astNode() {}
func (e *EmptyTree) Loc() source.Location { return e.Location }
