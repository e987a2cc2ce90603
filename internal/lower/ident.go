package lower

import (
	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
	"cfglower/internal/symbols"
)

// constantSymbol returns the symbol a ConstantLit resolves to, substituting
// the untyped sentinel for a failed resolution (SPEC_FULL.md "ConstantLit
// of the stub module").
func constantSymbol(n *ast.ConstantLit) symbols.GlobalSymbol {
	if n.IsStub {
		return symbols.Untyped
	}
	return n.Symbol
}

// walkConstantLit lowers a resolved constant/class reference. It is a
// trivial leaf (spec §4.3 intro): a single Alias instruction into current,
// carrying the resolved symbol regardless of whether a nested scope
// expression needed to be walked first purely for IDE/hover visibility
// (SPEC_FULL.md "ConstantLit with a non-trivial scope expression").
func walkConstantLit(ctx Context, n *ast.ConstantLit, current *cfg.BasicBlock) *cfg.BasicBlock {
	if n.Scope != nil {
		throwaway := ctx.Fresh("scopeTemp")
		current = Walk(ctx.WithTarget(throwaway), n.Scope, current)
	}

	current.Append(ctx.Target, n.Location, instr.Alias{Symbol: constantSymbol(n)})
	return current
}

// fieldSymbol is the stable GlobalSymbol identity an UnresolvedIdent
// resolves to once proven declared, keyed by kind so an instance variable
// and a class variable of the same name never collide in the aliases map.
func fieldSymbol(n *ast.UnresolvedIdent) symbols.GlobalSymbol {
	return symbols.GlobalSymbol{Name: n.Name, ID: int(n.Kind)}
}

// resolveUnresolvedIdent resolves an instance/class variable the namer
// could not prove declared, reporting UndeclaredVariable once per distinct
// name and unifying repeated occurrences onto the same fresh temporary
// (spec §4.3 "Unresolved identifier").
func resolveUnresolvedIdent(ctx Context, n *ast.UnresolvedIdent) symbols.LocalVariable {
	if n.Class != nil && n.Class.HasField(n.Name, n.Kind) {
		return ctx.globalToLocal(fieldSymbol(n))
	}

	if local, ok := ctx.cachedUndeclared(n.Name); ok {
		return local
	}

	ctx.Diags.Add(diagnostics.NewUndeclaredVariable(n.Location, n.Name))
	local := ctx.Fresh(n.Name)
	ctx.cacheUndeclared(n.Name, local)
	return local
}

func walkUnresolvedIdent(ctx Context, n *ast.UnresolvedIdent, current *cfg.BasicBlock) *cfg.BasicBlock {
	local := resolveUnresolvedIdent(ctx, n)
	current.Append(ctx.Target, n.Location, instr.Ident{Source: local})
	return current
}
