package lower

import (
	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
	"cfglower/internal/lowerconfig"
	"cfglower/internal/lowerlog"
	"cfglower/internal/symbols"
)

// LowerMethod lowers a single resolved method body into a CFG (spec §6
// "External Interfaces"). The caller seeds the walk with a fresh entry
// block and a discard target; this function attaches the method epilogue
// once the walk completes — the final continuation's value is returned and
// the block jumps to dead (spec §2 "Data flow").
func LowerMethod(methodName string, body ast.Node, class *symbols.ClassInfo, diags *diagnostics.Bag, opts lowerconfig.Options) *cfg.CFG {
	lowerlog.MethodStart(opts.Logger, methodName)

	graph := cfg.New()
	entry := graph.NewBlock(0, 0)
	methodReturn := symbols.LocalVariable{Name: "methodReturn", UniqueID: 0}

	ctx := NewContext(graph, diags, class, methodReturn)
	ctx.TagSyntheticLocations = opts.TagSyntheticLocations
	end := Walk(ctx, body, entry)

	if end != graph.Dead {
		end.Append(methodReturn, body.Loc(), instr.Return{Value: methodReturn})
		graph.JumpToDead(end, body.Loc())
	}

	blockCount, instrCount := countBlocksAndInstructions(graph)
	lowerlog.MethodDone(opts.Logger, methodName, blockCount, instrCount)
	for _, d := range diags.Diagnostics() {
		lowerlog.Diagnostic(opts.Logger, methodName, string(d.Code), d.Message)
	}

	return graph
}

func countBlocksAndInstructions(graph *cfg.CFG) (blocks, instructions int) {
	all := graph.Blocks()
	blocks = len(all)
	for _, b := range all {
		instructions += len(b.Entries)
	}
	return blocks, instructions
}
