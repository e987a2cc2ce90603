package lower

import (
	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/instr"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// walkRescue lowers `begin ... rescue Cs => v ... else ... ensure ... end`,
// the most intricate construct in the walker (spec §4.3 "Rescue"). Exception
// control flow is modeled with two opaque Unanalyzable conditionals
// flanking the body/else, an intentional coarse approximation of
// per-statement throw edges (spec §4.4, §9).
func walkRescue(ctx Context, n *ast.Rescue, current *cfg.BasicBlock) *cfg.BasicBlock {
	rescueStart := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	ctx.CFG.UnconditionalJump(current, rescueStart, n.Location)

	bodyCtx := ctx.WithRescueScope(rescueStart)

	rescueHandlers := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	bodyBlock := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)

	rescueStartTemp := ctx.Fresh("rescueStartTemp")
	rescueStart.Synthesize(rescueStartTemp, n.Location, instr.Unanalyzable{})
	ctx.CFG.ConditionalJump(rescueStart, rescueStartTemp, rescueHandlers, bodyBlock, n.Location)

	bodyEnd := Walk(bodyCtx, n.Body, bodyBlock)
	elseBody := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	ctx.CFG.UnconditionalJump(bodyEnd, elseBody, n.Location)

	elseEnd := Walk(bodyCtx, n.Else, elseBody)
	shouldEnsure := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	ctx.CFG.UnconditionalJump(elseEnd, shouldEnsure, n.Location)

	ensureBody := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	rescueEndTemp := ctx.Fresh("rescueEndTemp")
	shouldEnsure.Synthesize(rescueEndTemp, n.Location, instr.Unanalyzable{})
	ctx.CFG.ConditionalJump(shouldEnsure, rescueEndTemp, rescueHandlers, ensureBody, n.Location)

	currentHandler := rescueHandlers
	for _, rescueCase := range n.Cases {
		// Bind the resolver-assigned local directly: the handler body's
		// references to the exception variable are *ast.Local nodes
		// carrying this same identity, not a fresh temporary of our own.
		currentHandler.Synthesize(rescueCase.Var, n.Location, instr.Unanalyzable{})

		classes := rescueCase.Classes
		if len(classes) == 0 {
			classes = []ast.Node{defaultExceptionClass(n.Location)}
		}

		caseBody := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
		for _, class := range classes {
			classTemp := ctx.Fresh("exceptionClass")
			currentHandler = Walk(ctx.WithTarget(classTemp), class, currentHandler)

			isaTemp := ctx.Fresh("isaCheck")
			currentHandler.Append(isaTemp, n.Location, instr.Send{
				Receiver: rescueCase.Var,
				Method:   "is_a?",
				Args:     []symbols.LocalVariable{classTemp},
				ArgLocs:  []source.Location{n.Location},
			})

			otherHandler := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
			ctx.CFG.ConditionalJump(currentHandler, isaTemp, caseBody, otherHandler, n.Location)
			currentHandler = otherHandler
		}

		caseEnd := Walk(bodyCtx, rescueCase.Body, caseBody)
		ctx.CFG.UnconditionalJump(caseEnd, ensureBody, n.Location)
	}

	gotoDeadTemp := ctx.Fresh("gotoDeadTemp")
	currentHandler.Synthesize(gotoDeadTemp, n.Location, instr.Literal{Kind: ast.LiteralBool, Value: "true"})
	ctx.CFG.UnconditionalJump(currentHandler, ensureBody, n.Location)

	ensureTemp := ctx.Fresh("ensureTemp")
	ensureEnd := Walk(bodyCtx.WithTarget(ensureTemp), n.Ensure, ensureBody)

	ret := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	ctx.CFG.ConditionalJump(ensureEnd, gotoDeadTemp, ctx.CFG.Dead, ret, n.Location)
	return ret
}

// defaultExceptionClass stands in for the language's standard-error class
// when a rescue clause lists no explicit exception classes. The original
// mutates the input AST (appends then pops the class); this implementation
// instead substitutes a synthetic ConstantLit for the duration of lowering,
// never touching the caller's tree (SPEC_FULL.md).
func defaultExceptionClass(loc source.Location) ast.Node {
	return &ast.ConstantLit{Symbol: symbols.StandardError, Location: loc}
}
