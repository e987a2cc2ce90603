// Package lower implements the tree-directed AST-to-CFG lowering walker
// (spec §2 item 4, §4.3, §4.4). walk(ctx, node, current) pattern-matches on
// the resolved AST and emits instructions and blocks into a per-method CFG.
package lower

import (
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
	"cfglower/internal/symbols"
)

// Context is the lowering context threaded through every walk call (spec
// §4.4 CFGContext). It is a small value copied at every recursive
// descent; the handful of fields that must be observed across sibling
// walks (aliases, discovered undeclared fields, the temporary counter) are
// reference types shared through every copy, exactly as spec §9 describes
// ("shared-mutable through a non-owning reference back to a per-method
// root").
type Context struct {
	CFG   *cfg.CFG
	Diags *diagnostics.Bag
	Class *symbols.ClassInfo

	// Target is the local that receives the value of the node currently
	// being lowered.
	Target symbols.LocalVariable

	// Loops is the current lexical loop depth.
	Loops int
	// RubyBlockID is the id of the innermost iterator-block scope.
	RubyBlockID int

	NextScope        *cfg.BasicBlock
	BreakScope       *cfg.BasicBlock
	BlockBreakTarget symbols.LocalVariable
	RescueScope      *cfg.BasicBlock
	Link             *instr.SendAndBlockLink
	InsideRubyBlock  bool

	// TagSyntheticLocations mirrors lowerconfig.Options.TagSyntheticLocations
	// for the call sites (bindBlockParams) that choose between a synthetic
	// instruction's true anchor location and a zero-width one.
	TagSyntheticLocations bool

	aliases    map[symbols.GlobalSymbol]symbols.LocalVariable
	undeclared map[string]symbols.LocalVariable
	counter    *symbols.TemporaryCounter
}

// NewContext seeds a root context for lowering a single method body (spec
// §6 "Input"). target is the fresh "methodReturn" local the caller
// allocates.
func NewContext(c *cfg.CFG, diags *diagnostics.Bag, class *symbols.ClassInfo, target symbols.LocalVariable) Context {
	return Context{
		CFG:                   c,
		Diags:                 diags,
		Class:                 class,
		Target:                target,
		TagSyntheticLocations: true,
		aliases:               make(map[symbols.GlobalSymbol]symbols.LocalVariable),
		undeclared:            make(map[string]symbols.LocalVariable),
		counter:               symbols.NewTemporaryCounter(),
	}
}

// Fresh allocates a new temporary local, sharing this method's counter.
func (c Context) Fresh(name string) symbols.LocalVariable {
	return c.counter.Fresh(name)
}

// WithTarget returns a copy of c whose Target is local.
func (c Context) WithTarget(local symbols.LocalVariable) Context {
	c.Target = local
	return c
}

// WithLoopScope returns a copy of c entering a loop or iterator-block body:
// loop depth is incremented, ruby block id set, and next/break/inside-block
// scopes are updated.
func (c Context) WithLoopScope(next, brk *cfg.BasicBlock, rubyBlockID int, insideRubyBlock bool) Context {
	c.Loops++
	c.RubyBlockID = rubyBlockID
	c.NextScope = next
	c.BreakScope = brk
	c.InsideRubyBlock = insideRubyBlock
	return c
}

// WithBlockBreakTarget returns a copy of c recording the local a `break`
// reached from here should assign into.
func (c Context) WithBlockBreakTarget(local symbols.LocalVariable) Context {
	c.BlockBreakTarget = local
	return c
}

// WithRescueScope returns a copy of c inside a `begin`/`rescue` body.
func (c Context) WithRescueScope(scope *cfg.BasicBlock) Context {
	c.RescueScope = scope
	return c
}

// WithLink returns a copy of c carrying the active SendAndBlockLink for an
// iterator body being walked.
func (c Context) WithLink(link *instr.SendAndBlockLink) Context {
	c.Link = link
	return c
}

// globalToLocal lazily allocates (and caches) the method-local alias for a
// global/constant symbol the first time it is aliased in this method (spec
// §4.3 Assignment, §9 "global_to_local").
func (c Context) globalToLocal(sym symbols.GlobalSymbol) symbols.LocalVariable {
	if local, ok := c.aliases[sym]; ok {
		return local
	}
	local := c.Fresh(sym.Name)
	c.aliases[sym] = local
	return local
}

// cachedUndeclared returns the temporary previously allocated for an
// undeclared field name, if this is not the first occurrence.
func (c Context) cachedUndeclared(name string) (symbols.LocalVariable, bool) {
	local, ok := c.undeclared[name]
	return local, ok
}

func (c Context) cacheUndeclared(name string, local symbols.LocalVariable) {
	c.undeclared[name] = local
}
