package lower

import (
	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
)

// walkIf lowers a conditional (spec §4.3 "Conditional (If)"). The second
// "thenEnd == dead" check in the original source is a documented typo for
// "elseEnd == dead" (spec §9 Open Questions); this implementation applies
// that correction.
func walkIf(ctx Context, n *ast.If, current *cfg.BasicBlock) *cfg.BasicBlock {
	ifTemp := ctx.Fresh("ifTemp")
	current = Walk(ctx.WithTarget(ifTemp), n.Cond, current)

	thenBlock := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	elseBlock := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	ctx.CFG.ConditionalJump(current, ifTemp, thenBlock, elseBlock, n.Location)

	thenEnd := Walk(ctx, n.Then, thenBlock)
	elseEnd := Walk(ctx, n.Else, elseBlock)

	thenDead := thenEnd == ctx.CFG.Dead
	elseDead := elseEnd == ctx.CFG.Dead

	if thenDead && elseDead {
		return ctx.CFG.Dead
	}
	if thenDead {
		return elseEnd
	}
	if elseDead {
		return thenEnd
	}

	join := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	ctx.CFG.UnconditionalJump(thenEnd, join, n.Location)
	ctx.CFG.UnconditionalJump(elseEnd, join, n.Location)
	return join
}

// walkWhile lowers a pre-test loop (spec §4.3 "While loop").
func walkWhile(ctx Context, n *ast.While, current *cfg.BasicBlock) *cfg.BasicBlock {
	header := ctx.CFG.NewBlock(ctx.Loops+1, ctx.RubyBlockID)
	breakNotCalled := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	continueBlock := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)

	ctx.CFG.UnconditionalJump(current, header, n.Location)

	loopCtx := ctx.WithLoopScope(header, continueBlock, ctx.RubyBlockID, ctx.InsideRubyBlock)
	condTemp := loopCtx.Fresh("whileCond")
	headerEnd := Walk(loopCtx.WithTarget(condTemp), n.Cond, header)

	bodyBlock := ctx.CFG.NewBlock(ctx.Loops+1, ctx.RubyBlockID)
	ctx.CFG.ConditionalJump(headerEnd, condTemp, bodyBlock, breakNotCalled, n.Location)

	bodyCtx := loopCtx.WithBlockBreakTarget(ctx.Target)
	bodyEnd := Walk(bodyCtx, n.Body, bodyBlock)
	ctx.CFG.UnconditionalJump(bodyEnd, header, n.Location)

	breakNotCalled.Synthesize(ctx.Target, n.Location, instr.Literal{Kind: ast.LiteralNil, Value: "nil"})
	ctx.CFG.UnconditionalJump(breakNotCalled, continueBlock, n.Location)

	return continueBlock
}

// walkReturn lowers a method return (spec §4.3 "Return").
func walkReturn(ctx Context, n *ast.Return, current *cfg.BasicBlock) *cfg.BasicBlock {
	retTemp := ctx.Fresh("returnTemp")
	current = Walk(ctx.WithTarget(retTemp), n.Expr, current)
	current.Append(ctx.Target, n.Location, instr.Return{Value: retTemp})
	ctx.CFG.JumpToDead(current, n.Location)
	return ctx.CFG.Dead
}

// walkNext lowers `next` (spec §4.3 "Next").
func walkNext(ctx Context, n *ast.Next, current *cfg.BasicBlock) *cfg.BasicBlock {
	nextTemp := ctx.Fresh("nextTemp")
	current = Walk(ctx.WithTarget(nextTemp), n.Expr, current)

	if ctx.Link != nil && current != ctx.CFG.Dead {
		discard := ctx.Fresh("nextBlockReturn")
		current.Synthesize(discard, n.Location, instr.BlockReturn{Link: ctx.Link, Value: nextTemp})
	}

	if ctx.NextScope == nil {
		ctx.Diags.Add(diagnostics.NewNoNextScope(n.Location, "next", "loop or block"))
		ctx.CFG.JumpToDead(current, n.Location)
		return ctx.CFG.Dead
	}

	ctx.CFG.UnconditionalJump(current, ctx.NextScope, n.Location)
	return ctx.CFG.Dead
}

// walkBreak lowers `break` (spec §4.3 "Break"). The two-hop assignment is
// a documented marker recognized by downstream pinned-variable analysis to
// suppress a spurious "changing type in loop" error across break edges.
func walkBreak(ctx Context, n *ast.Break, current *cfg.BasicBlock) *cfg.BasicBlock {
	retTemp := ctx.Fresh("returnTemp")
	current = Walk(ctx.WithTarget(retTemp), n.Expr, current)

	blockBreakAssign := ctx.Fresh("blockBreakAssign")
	current.Synthesize(blockBreakAssign, n.Location, instr.Ident{Source: retTemp})
	current.Synthesize(ctx.BlockBreakTarget, n.Location, instr.Ident{Source: blockBreakAssign})

	if ctx.BreakScope == nil {
		ctx.Diags.Add(diagnostics.NewNoNextScope(n.Location, "break", "loop or block"))
		ctx.CFG.JumpToDead(current, n.Location)
		return ctx.CFG.Dead
	}

	ctx.CFG.UnconditionalJump(current, ctx.BreakScope, n.Location)
	return ctx.CFG.Dead
}

// walkRetry lowers `retry` (spec §4.3 "Retry").
func walkRetry(ctx Context, n *ast.Retry, current *cfg.BasicBlock) *cfg.BasicBlock {
	if ctx.RescueScope == nil {
		ctx.Diags.Add(diagnostics.NewNoNextScope(n.Location, "retry", "begin/rescue"))
		ctx.CFG.JumpToDead(current, n.Location)
		return ctx.CFG.Dead
	}

	ctx.CFG.UnconditionalJump(current, ctx.RescueScope, n.Location)
	return ctx.CFG.Dead
}
