package lower

import (
	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/instr"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// walkArray lowers an array literal into a call on the magic module (spec
// §4.3 "Array, Hash").
func walkArray(ctx Context, n *ast.Array, current *cfg.BasicBlock) *cfg.BasicBlock {
	elemTemps := make([]symbols.LocalVariable, len(n.Elements))
	for i, el := range n.Elements {
		elemTemp := ctx.Fresh("elemTemp")
		current = Walk(ctx.WithTarget(elemTemp), el, current)
		elemTemps[i] = elemTemp
	}
	return emitMagicBuild(ctx, current, n.Location, "buildArray", elemTemps)
}

// walkHash lowers a hash literal, alternating key/value into fresh
// temporaries before calling buildHash on the magic module.
func walkHash(ctx Context, n *ast.Hash, current *cfg.BasicBlock) *cfg.BasicBlock {
	elemTemps := make([]symbols.LocalVariable, 0, len(n.Pairs)*2)
	for _, pair := range n.Pairs {
		keyTemp := ctx.Fresh("keyTemp")
		current = Walk(ctx.WithTarget(keyTemp), pair.Key, current)
		valTemp := ctx.Fresh("valTemp")
		current = Walk(ctx.WithTarget(valTemp), pair.Value, current)
		elemTemps = append(elemTemps, keyTemp, valTemp)
	}
	return emitMagicBuild(ctx, current, n.Location, "buildHash", elemTemps)
}

func emitMagicBuild(ctx Context, current *cfg.BasicBlock, loc source.Location, method string, elems []symbols.LocalVariable) *cfg.BasicBlock {
	magic := ctx.Fresh("magic")
	current.Synthesize(magic, loc, instr.Alias{Symbol: symbols.MagicModule})

	argLocs := make([]source.Location, len(elems))
	for i := range argLocs {
		argLocs[i] = loc
	}

	current.Append(ctx.Target, loc, instr.Send{
		Receiver: magic,
		Method:   method,
		Args:     elems,
		ArgLocs:  argLocs,
	})
	return current
}

// walkCast lowers a checked coercion (spec §4.3 "Cast", T7).
func walkCast(ctx Context, n *ast.Cast, current *cfg.BasicBlock) *cfg.BasicBlock {
	argTemp := ctx.Fresh("castArg")
	current = Walk(ctx.WithTarget(argTemp), n.Arg, current)
	current.Append(ctx.Target, n.Location, instr.Cast{Source: argTemp, Type: n.Type, Kind: n.Kind})
	if n.Kind == ast.CastLet {
		ctx.CFG.MarkMinLoopLet(ctx.Target)
	}
	return current
}
