package lower

import (
	"strconv"

	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// isTModuleReceiver reports whether recv resolves to the type-module
// constant `T`, the receiver the walker special-cases for T.absurd (spec
// §4.3 "Plain Send").
func isTModuleReceiver(recv ast.Node) bool {
	c, ok := recv.(*ast.ConstantLit)
	return ok && !c.IsStub && c.Symbol == symbols.TModule
}

// walkSend lowers a call with no attached iterator block (spec §4.3 "Plain
// Send"), special-casing T.absurd.
func walkSend(ctx Context, n *ast.Send, current *cfg.BasicBlock) *cfg.BasicBlock {
	if n.Method == "absurd" && isTModuleReceiver(n.Receiver) {
		return walkTAbsurd(ctx, n, current)
	}

	recvTemp := ctx.Fresh("recvTemp")
	current = Walk(ctx.WithTarget(recvTemp), n.Receiver, current)

	argTemps := make([]symbols.LocalVariable, len(n.Args))
	argLocs := make([]source.Location, len(n.Args))
	for i, arg := range n.Args {
		argTemp := ctx.Fresh("argTemp")
		current = Walk(ctx.WithTarget(argTemp), arg, current)
		argTemps[i] = argTemp
		argLocs[i] = arg.Loc()
	}

	current.Append(ctx.Target, n.Location, instr.Send{
		Receiver: recvTemp,
		Method:   n.Method,
		Args:     argTemps,
		ArgLocs:  argLocs,
		Private:  n.Private,
	})
	return current
}

// walkTAbsurd lowers `T.absurd(x)`: the sole argument must exist and must
// not itself be a call (spec §4.3 "Plain Send"). A malformed use emits a
// diagnostic and leaves current untouched, with no instruction (spec §8
// boundary scenario 6).
func walkTAbsurd(ctx Context, n *ast.Send, current *cfg.BasicBlock) *cfg.BasicBlock {
	if len(n.Args) != 1 {
		ctx.Diags.Add(diagnostics.NewMalformedTAbsurd(n.Location, "must be called with exactly one argument"))
		return current
	}
	if _, isSend := n.Args[0].(*ast.Send); isSend {
		ctx.Diags.Add(diagnostics.NewMalformedTAbsurd(n.Location, "argument must be a variable, not the result of a call"))
		return current
	}

	argTemp := ctx.Fresh("argTemp")
	current = Walk(ctx.WithTarget(argTemp), n.Args[0], current)
	current.Append(ctx.Target, n.Location, instr.TAbsurd{Source: argTemp})
	return current
}

// walkSendWithBlock lowers a call with an attached iterator block (spec
// §4.3 "Iterator-block call"), the largest single construct in the walker.
func walkSendWithBlock(ctx Context, n *ast.Send, current *cfg.BasicBlock) *cfg.BasicBlock {
	rubyBlockID := ctx.CFG.MaxRubyBlockID + 1

	paramFlags := make([]ast.ArgFlags, len(n.Block.Params))
	for i, p := range n.Block.Params {
		paramFlags[i] = p.Flags
	}
	link := &instr.SendAndBlockLink{Method: n.Method, ParamFlags: paramFlags, RubyBlockID: rubyBlockID}

	recvTemp := ctx.Fresh("recvTemp")
	current = Walk(ctx.WithTarget(recvTemp), n.Receiver, current)

	argTemps := make([]symbols.LocalVariable, len(n.Args))
	argLocs := make([]source.Location, len(n.Args))
	for i, arg := range n.Args {
		argTemp := ctx.Fresh("argTemp")
		current = Walk(ctx.WithTarget(argTemp), arg, current)
		argTemps[i] = argTemp
		argLocs[i] = arg.Loc()
	}

	sendTemp := ctx.Fresh("sendTemp")
	current.Append(sendTemp, n.Location, instr.Send{
		Receiver: recvTemp,
		Method:   n.Method,
		Args:     argTemps,
		ArgLocs:  argLocs,
		Private:  n.Private,
		Link:     link,
	})

	restoreSelf := ctx.Fresh("restoreSelf")
	current.Synthesize(restoreSelf, n.Location, instr.Ident{Source: symbols.Self})

	header := ctx.CFG.NewBlock(ctx.Loops+1, rubyBlockID)
	solveConstraint := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	post := ctx.CFG.NewBlock(ctx.Loops, ctx.RubyBlockID)
	body := ctx.CFG.NewBlock(ctx.Loops+1, rubyBlockID)

	body.Synthesize(symbols.Self, n.Location, instr.LoadSelf{Link: link, OuterSelf: symbols.Self})
	argTemp := ctx.Fresh("yieldParams")
	body.Synthesize(argTemp, n.Location, instr.LoadYieldParams{Link: link})

	bindBlockParams(ctx, ctx.TagSyntheticLocations, n.Block.Params, argTemp, body, n.Location)

	ctx.CFG.ConditionalJump(header, symbols.BlockCall, body, solveConstraint, n.Location)
	ctx.CFG.UnconditionalJump(current, header, n.Location)

	blockReturnTemp := ctx.Fresh("blockReturnTemp")
	blockCtx := ctx.WithLoopScope(header, post, rubyBlockID, true).
		WithBlockBreakTarget(ctx.Target).
		WithLink(link).
		WithTarget(blockReturnTemp)
	bodyEnd := Walk(blockCtx, n.Block.Body, body)
	if bodyEnd != ctx.CFG.Dead {
		dead := ctx.Fresh("blockReturnDiscard")
		bodyEnd.Synthesize(dead, n.Location, instr.BlockReturn{Link: link, Value: blockReturnTemp})
		ctx.CFG.UnconditionalJump(bodyEnd, header, n.Location)
	}

	ctx.CFG.UnconditionalJump(solveConstraint, post, n.Location)
	solveConstraint.Append(ctx.Target, n.Location, instr.SolveConstraint{Link: link, PreCall: sendTemp})

	post.Synthesize(symbols.Self, n.Location, instr.Ident{Source: restoreSelf})
	return post
}

// bindBlockParams binds each iterator-block parameter from the yielded
// argument tuple (spec §4.3 step 8). A repeated parameter at position 0
// binds directly to the whole tuple; a repeated parameter at any other
// position is an unsupported mix and degrades to Alias(untyped), a
// documented gap (SPEC_FULL.md). tagSynthetic controls whether the bound
// params get a zero-width location (lowerconfig.Options.TagSyntheticLocations);
// a driver inspecting synthetic instructions can pass false to keep loc.
func bindBlockParams(ctx Context, tagSynthetic bool, params []ast.BlockParam, argTemp symbols.LocalVariable, body *cfg.BasicBlock, loc source.Location) {
	zeroLoc := loc
	if tagSynthetic {
		zeroLoc = source.ZeroWidth(loc)
	}
	for i, p := range params {
		// Bind the resolver-assigned local directly: the block body's
		// references to this parameter are *ast.Local nodes carrying this
		// same identity, not a fresh temporary of our own.
		dest := p.Var
		switch {
		case p.Flags.IsRepeated && i == 0:
			body.Synthesize(dest, zeroLoc, instr.Ident{Source: argTemp})
		case p.Flags.IsRepeated:
			body.Synthesize(dest, zeroLoc, instr.Alias{Symbol: symbols.Untyped})
		default:
			idxTemp := ctx.Fresh("idxTmp")
			body.Synthesize(idxTemp, zeroLoc, instr.Literal{Kind: ast.LiteralInt, Value: strconv.Itoa(i)})
			body.Synthesize(dest, zeroLoc, instr.Send{
				Receiver: argTemp,
				Method:   "[]",
				Args:     []symbols.LocalVariable{idxTemp},
				ArgLocs:  []source.Location{zeroLoc},
			})
		}
	}
}
