package lower

import (
	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// Walk lowers node into current, storing its value in ctx.Target, and
// returns the block subsequent statements must be appended to (spec §4.3
// "Lowering walker — contract"). A returned dead block means control does
// not locally continue.
//
// Precondition: current has no terminator yet, or current is the CFG's
// dead block.
func Walk(ctx Context, node ast.Node, current *cfg.BasicBlock) *cfg.BasicBlock {
	switch n := node.(type) {
	case *ast.Literal:
		current.Append(ctx.Target, n.Location, instr.Literal{Kind: n.Kind, Value: n.Value})
		return current

	case *ast.Local:
		current.Append(ctx.Target, n.Location, instr.Ident{Source: n.Var})
		return current

	case *ast.Field:
		current.Append(ctx.Target, n.Location, instr.Alias{Symbol: n.Symbol})
		return current

	case *ast.EmptyTree:
		return current

	case *ast.UnresolvedIdent:
		return walkUnresolvedIdent(ctx, n, current)

	case *ast.ConstantLit:
		return walkConstantLit(ctx, n, current)

	case *ast.UnresolvedConstantLit:
		reportInternalError(ctx, current, n.Location, "UnresolvedConstantLit reached the lowering pass; the namer/resolver should have eliminated it")
		return current

	case *ast.Assign:
		return walkAssign(ctx, n, current)

	case *ast.InsSeq:
		return walkInsSeq(ctx, n, current)

	case *ast.If:
		return walkIf(ctx, n, current)

	case *ast.While:
		return walkWhile(ctx, n, current)

	case *ast.Return:
		return walkReturn(ctx, n, current)

	case *ast.Next:
		return walkNext(ctx, n, current)

	case *ast.Break:
		return walkBreak(ctx, n, current)

	case *ast.Retry:
		return walkRetry(ctx, n, current)

	case *ast.Rescue:
		return walkRescue(ctx, n, current)

	case *ast.Send:
		if n.Block != nil {
			return walkSendWithBlock(ctx, n, current)
		}
		return walkSend(ctx, n, current)

	case *ast.Block:
		reportInternalError(ctx, current, n.Location, "encountered a bare Block node; Block must only appear as Send.Block")
		return current

	case *ast.Array:
		return walkArray(ctx, n, current)

	case *ast.Hash:
		return walkHash(ctx, n, current)

	case *ast.Cast:
		return walkCast(ctx, n, current)

	case *ast.ClassDef:
		reportInternalError(ctx, current, n.Location, "ClassDef reached the lowering pass; FlattenWalk should have removed it")
		return current

	case *ast.MethodDef:
		reportInternalError(ctx, current, n.Location, "MethodDef reached the lowering pass; FlattenWalk should have removed it")
		return current

	default:
		reportInternalError(ctx, current, node.Loc(), "unrecognized AST node reached the lowering walker")
		return current
	}
}

// reportInternalError enqueues an InternalError diagnostic for an upstream
// invariant violation (spec §7.2): the walker does not panic, it reports
// and lets the caller decide whether to abort the method.
func reportInternalError(ctx Context, _ *cfg.BasicBlock, loc source.Location, message string) {
	ctx.Diags.Add(diagnostics.NewInternalError(loc, message))
}

func walkInsSeq(ctx Context, n *ast.InsSeq, current *cfg.BasicBlock) *cfg.BasicBlock {
	for _, stat := range n.Stats {
		statTemp := ctx.Fresh("statTemp")
		current = Walk(ctx.WithTarget(statTemp), stat, current)
	}
	return Walk(ctx, n.Expr, current)
}

func walkAssign(ctx Context, n *ast.Assign, current *cfg.BasicBlock) *cfg.BasicBlock {
	lhs, ok := resolveAssignTarget(ctx, n.Lhs)
	if !ok {
		reportInternalError(ctx, current, n.Location, "assignment left-hand side must be a constant, field, local, or unresolved identifier")
		return current
	}

	current = Walk(ctx.WithTarget(lhs), n.Rhs, current)
	current.Append(ctx.Target, n.Location, instr.Ident{Source: lhs})
	return current
}

// resolveAssignTarget resolves an assignment's LHS to the local that
// should receive the RHS value (spec §4.3 Assignment). UnresolvedIdent may
// itself enqueue a diagnostic and allocate a fresh temporary.
func resolveAssignTarget(ctx Context, lhs ast.Node) (symbols.LocalVariable, bool) {
	switch l := lhs.(type) {
	case *ast.ConstantLit:
		return ctx.globalToLocal(constantSymbol(l)), true
	case *ast.Field:
		return ctx.globalToLocal(l.Symbol), true
	case *ast.Local:
		return l.Var, true
	case *ast.UnresolvedIdent:
		return resolveUnresolvedIdent(ctx, l), true
	default:
		return symbols.NoVariable(), false
	}
}
