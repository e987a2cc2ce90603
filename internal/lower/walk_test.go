package lower

import (
	"testing"

	"cfglower/internal/ast"
	"cfglower/internal/cfg"
	"cfglower/internal/diagnostics"
	"cfglower/internal/instr"
	"cfglower/internal/lowerconfig"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

func loc() source.Location {
	return source.Location{Filename: "m.rb", Start: source.Position{Line: 1, Column: 1}, End: source.Position{Line: 1, Column: 2}}
}

func lit(kind ast.LiteralKind, value string) ast.Node {
	return &ast.Literal{Kind: kind, Value: value, Location: loc()}
}

// terminatorTargets collects the (then, else) successors of a block's
// terminator, or (nil, nil) if unset.
func terminatorTargets(b *cfg.BasicBlock) (*cfg.BasicBlock, *cfg.BasicBlock) {
	if b.Terminator == nil {
		return nil, nil
	}
	return b.Terminator.Then, b.Terminator.Else
}

// T1: every reachable block has its terminator set exactly once, and no
// edge primitive sets a terminator twice (enforced structurally by the
// panic in cfg.setTerminator, exercised indirectly by every test below).

func TestWalk_WhileTrueBreak(t *testing.T) {
	// while true; break 1; end
	body := &ast.While{
		Cond: lit(ast.LiteralBool, "true"),
		Body: &ast.Break{Expr: lit(ast.LiteralInt, "1"), Location: loc()},
		Location: loc(),
	}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}

	// entry -> header
	blocks := graph.Blocks()
	var entry *cfg.BasicBlock
	for _, b := range blocks {
		if b != graph.Dead && len(b.BackEdges) == 0 {
			entry = b
			break
		}
	}
	if entry == nil {
		t.Fatal("expected to find the entry block")
	}

	header, _ := terminatorTargets(entry)
	if header == nil {
		t.Fatal("expected entry to jump to a header block")
	}

	// header is a conditional jump (the while condition).
	bodyBlock, breakNotCalled := terminatorTargets(header)
	if bodyBlock == nil || breakNotCalled == nil {
		t.Fatal("expected header to conditionally jump to body and break_not_called")
	}
	if header.Terminator.Cond.IsNoVariable() {
		t.Error("expected header's terminator to branch on the while condition, not be unconditional")
	}

	// body contains the break's two-hop assignment and jumps out of the loop
	// (the break scope), not back to header.
	foundTwoHop := false
	for i := 0; i+1 < len(bodyBlock.Entries); i++ {
		if _, ok := bodyBlock.Entries[i].Instr.(instr.Ident); ok {
			if _, ok2 := bodyBlock.Entries[i+1].Instr.(instr.Ident); ok2 {
				foundTwoHop = true
			}
		}
	}
	if !foundTwoHop {
		t.Error("expected a two-hop Ident/Ident assignment pair for break's marker pattern")
	}

	bodyThen, bodyElse := terminatorTargets(bodyBlock)
	if bodyThen != bodyElse {
		t.Fatal("expected body's exit to be an unconditional jump")
	}
	continueBlock := bodyThen
	if continueBlock == header {
		t.Error("break must not jump back to header")
	}

	// break_not_called assigns a nil literal then flows to continue.
	foundNilLiteral := false
	for _, e := range breakNotCalled.Entries {
		if litInstr, ok := e.Instr.(instr.Literal); ok && litInstr.Kind == ast.LiteralNil {
			foundNilLiteral = true
		}
	}
	if !foundNilLiteral {
		t.Error("expected break_not_called to assign a nil literal")
	}
	bncThen, bncElse := terminatorTargets(breakNotCalled)
	if bncThen != continueBlock || bncElse != continueBlock {
		t.Error("expected break_not_called to flow to continue")
	}
}

func TestWalk_AssignThenRead(t *testing.T) {
	// x = 1; x
	x := symbols.LocalVariable{Name: "x", UniqueID: 1}
	body := &ast.InsSeq{
		Stats: []ast.Node{
			&ast.Assign{Lhs: &ast.Local{Var: x, Location: loc()}, Rhs: lit(ast.LiteralInt, "1"), Location: loc()},
		},
		Expr:     &ast.Local{Var: x, Location: loc()},
		Location: loc(),
	}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}

	blocks := graph.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected exactly 2 blocks (entry + dead), got %d", len(blocks))
	}

	var entry *cfg.BasicBlock
	for _, b := range blocks {
		if b != graph.Dead {
			entry = b
		}
	}

	foundAssign := false
	foundReturn := false
	for _, e := range entry.Entries {
		if lit, ok := e.Instr.(instr.Literal); ok && e.Dest == x && lit.Value == "1" {
			foundAssign = true
		}
		if ret, ok := e.Instr.(instr.Return); ok && ret.Value.Name == "methodReturn" {
			foundReturn = true
		}
	}
	if !foundAssign {
		t.Error("expected x := Literal(1)")
	}
	if !foundReturn {
		t.Error("expected the method epilogue to emit Return(methodReturn)")
	}

	then, els := terminatorTargets(entry)
	if then != graph.Dead || els != graph.Dead {
		t.Error("expected the block to flow to the dead block via Return")
	}
}

func TestWalk_IfElse_BothLive(t *testing.T) {
	// if c then 1 else 2 end
	c := symbols.LocalVariable{Name: "c", UniqueID: 1}
	body := &ast.If{
		Cond:     &ast.Local{Var: c, Location: loc()},
		Then:     lit(ast.LiteralInt, "1"),
		Else:     lit(ast.LiteralInt, "2"),
		Location: loc(),
	}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	var entry *cfg.BasicBlock
	for _, b := range graph.Blocks() {
		if b != graph.Dead && len(b.BackEdges) == 0 {
			entry = b
		}
	}

	thenB, elseB := terminatorTargets(entry)
	if thenB == nil || elseB == nil || thenB == elseB {
		t.Fatal("expected entry to conditionally jump to distinct then/else blocks")
	}

	thenNext, thenNext2 := terminatorTargets(thenB)
	elseNext, elseNext2 := terminatorTargets(elseB)
	if thenNext != thenNext2 || elseNext != elseNext2 {
		t.Fatal("expected then/else arms to unconditionally jump to a join block")
	}
	if thenNext != elseNext {
		t.Error("expected both live arms to join at the same block")
	}
	if thenNext == graph.Dead {
		t.Error("expected a live join block, not dead, when both arms are live")
	}
}

func TestWalk_IfElse_ThenReturns(t *testing.T) {
	// if c then (return 1) else 2 end
	c := symbols.LocalVariable{Name: "c", UniqueID: 1}
	body := &ast.If{
		Cond:     &ast.Local{Var: c, Location: loc()},
		Then:     &ast.Return{Expr: lit(ast.LiteralInt, "1"), Location: loc()},
		Else:     lit(ast.LiteralInt, "2"),
		Location: loc(),
	}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	var entry *cfg.BasicBlock
	for _, b := range graph.Blocks() {
		if b != graph.Dead && len(b.BackEdges) == 0 {
			entry = b
		}
	}

	thenB, _ := terminatorTargets(entry)
	thenThen, _ := terminatorTargets(thenB)
	if thenThen != graph.Dead {
		t.Fatal("expected the then arm (return) to flow to dead")
	}

	// when the then arm is dead, the if's result is the else arm's own
	// continuation block directly — no join block gets allocated.
	if len(graph.Blocks()) != 4 {
		t.Errorf("expected exactly 4 blocks (entry, then, else, dead) with no join block, got %d", len(graph.Blocks()))
	}
}

func TestWalk_TAbsurd_WrongArity(t *testing.T) {
	tNode := &ast.ConstantLit{Symbol: symbols.TModule, Location: loc()}
	body := &ast.Send{Receiver: tNode, Method: "absurd", Args: nil, Location: loc()}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())
	_ = graph

	if !diags.HasErrors() {
		t.Fatal("expected a MalformedTAbsurd diagnostic")
	}
	found := false
	for _, d := range diags.Diagnostics() {
		if d.Code == diagnostics.MalformedTAbsurd {
			found = true
		}
	}
	if !found {
		t.Error("expected the MalformedTAbsurd code specifically")
	}
}

func TestWalk_TAbsurd_SendArgument(t *testing.T) {
	tNode := &ast.ConstantLit{Symbol: symbols.TModule, Location: loc()}
	innerSend := &ast.Send{Receiver: lit(ast.LiteralInt, "1"), Method: "foo", Location: loc()}
	body := &ast.Send{Receiver: tNode, Method: "absurd", Args: []ast.Node{innerSend}, Location: loc()}

	diags := diagnostics.NewBag()
	LowerMethod("m", body, nil, diags, lowerconfig.Default())

	if !diags.HasErrors() {
		t.Fatal("expected a MalformedTAbsurd diagnostic for a call-shaped argument")
	}
}

func TestWalk_IteratorBlockWithBreak(t *testing.T) {
	// [1, 2].each { |i| break i }
	recv := &ast.Array{Elements: []ast.Node{lit(ast.LiteralInt, "1"), lit(ast.LiteralInt, "2")}, Location: loc()}
	i := symbols.LocalVariable{Name: "i", UniqueID: 1}
	block := &ast.Block{
		Params: []ast.BlockParam{{Name: "i", Var: i}},
		Body:   &ast.Break{Expr: &ast.Local{Var: i, Location: loc()}, Location: loc()},
		Location: loc(),
	}
	body := &ast.Send{Receiver: recv, Method: "each", Block: block, Location: loc()}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}

	var sendLink *instr.SendAndBlockLink
	var headerBlock *cfg.BasicBlock
	for _, b := range graph.Blocks() {
		for _, e := range b.Entries {
			if s, ok := e.Instr.(instr.Send); ok && s.Link != nil {
				sendLink = s.Link
			}
			if _, ok := e.Instr.(instr.LoadSelf); ok {
				headerBlock = b
			}
		}
	}
	if sendLink == nil {
		t.Fatal("expected a Send instruction carrying a SendAndBlockLink")
	}
	if headerBlock == nil {
		t.Fatal("expected a body block containing LoadSelf")
	}

	// body must also contain LoadYieldParams tied to the same link.
	foundYieldParams := false
	boundParam := false
	for _, e := range headerBlock.Entries {
		if ly, ok := e.Instr.(instr.LoadYieldParams); ok && ly.Link == sendLink {
			foundYieldParams = true
		}
		if e.Dest == i {
			boundParam = true
		}
	}
	if !foundYieldParams {
		t.Error("expected LoadYieldParams(link) in the block body")
	}
	if !boundParam {
		t.Error("expected the block parameter to be bound to the same local identity the body's break references")
	}

	// the body's exit (break) must not loop back to header; it reaches
	// post directly instead.
	then, els := terminatorTargets(headerBlock)
	if then != els {
		t.Fatal("expected break's exit from the body to be an unconditional jump")
	}
}

func TestWalk_RescueWithHandler(t *testing.T) {
	// begin; f; rescue E => e; g(e); ensure; h; end
	excSym := symbols.GlobalSymbol{Name: "E", ID: 1}
	excVar := symbols.LocalVariable{Name: "e", UniqueID: 1}
	bodyCall := &ast.Send{Receiver: &ast.Local{Var: symbols.Self, Location: loc()}, Method: "f", Location: loc()}
	ensureCall := &ast.Send{Receiver: &ast.Local{Var: symbols.Self, Location: loc()}, Method: "h", Location: loc()}

	rescueCase := ast.RescueCase{
		Classes: []ast.Node{&ast.ConstantLit{Symbol: excSym, Location: loc()}},
		Var:     excVar,
		Body: &ast.Send{
			Receiver: &ast.Local{Var: symbols.Self, Location: loc()},
			Method:   "g",
			Args:     []ast.Node{&ast.Local{Var: excVar, Location: loc()}},
			Location: loc(),
		},
	}

	body := &ast.Rescue{
		Body:     bodyCall,
		Cases:    []ast.RescueCase{rescueCase},
		Else:     &ast.EmptyTree{Location: loc()},
		Ensure:   ensureCall,
		Location: loc(),
	}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}

	foundIsA := false
	isaReceivedExcVar := false
	for _, b := range graph.Blocks() {
		for _, e := range b.Entries {
			if s, ok := e.Instr.(instr.Send); ok && s.Method == "is_a?" {
				foundIsA = true
				if s.Receiver == excVar {
					isaReceivedExcVar = true
				}
			}
		}
	}
	if !foundIsA {
		t.Error("expected an is_a? check against the rescue class")
	}
	if !isaReceivedExcVar {
		t.Error("expected the is_a? check's receiver to be the same local bound to the exception")
	}

	foundUnanalyzable := 0
	boundExcVar := false
	for _, b := range graph.Blocks() {
		for _, e := range b.Entries {
			if _, ok := e.Instr.(instr.Unanalyzable); ok {
				foundUnanalyzable++
				if e.Dest == excVar {
					boundExcVar = true
				}
			}
		}
	}
	if foundUnanalyzable < 3 {
		t.Errorf("expected at least 3 Unanalyzable instructions (rescue_start, should_ensure, exception binding), got %d", foundUnanalyzable)
	}
	if !boundExcVar {
		t.Error("expected the caught exception to be bound directly to the resolved local, not a fresh temporary")
	}

	// the handler body's g(e) call must reference that same local identity.
	foundHandlerUse := false
	for _, b := range graph.Blocks() {
		for _, e := range b.Entries {
			if s, ok := e.Instr.(instr.Send); ok && s.Method == "g" {
				for _, arg := range s.Args {
					if arg == excVar {
						foundHandlerUse = true
					}
				}
			}
		}
	}
	if !foundHandlerUse {
		t.Error("expected the handler body's g(e) call to reference the bound exception local")
	}
}

func TestWalk_CastLet_RecordsMinLoop(t *testing.T) {
	body := &ast.Cast{Arg: lit(ast.LiteralInt, "1"), Type: "Integer", Kind: ast.CastLet, Location: loc()}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())

	found := false
	for local, depth := range graph.MinLoops {
		if local.Name == "methodReturn" && depth == cfg.MinLoopLet {
			found = true
		}
	}
	if !found {
		t.Error("expected methodReturn to be recorded with MinLoopLet after a let cast")
	}
}

func TestWalk_UndeclaredVariable_CachesAcrossOccurrences(t *testing.T) {
	ident1 := &ast.UnresolvedIdent{Kind: symbols.InstanceVariable, Name: "@x", Location: loc()}
	ident2 := &ast.UnresolvedIdent{Kind: symbols.InstanceVariable, Name: "@x", Location: loc()}
	body := &ast.InsSeq{
		Stats:    []ast.Node{ident1},
		Expr:     ident2,
		Location: loc(),
	}

	diags := diagnostics.NewBag()
	graph := LowerMethod("m", body, nil, diags, lowerconfig.Default())
	_ = graph

	if diags.ErrorCount() != 1 {
		t.Errorf("expected exactly one UndeclaredVariable diagnostic across both occurrences, got %d", diags.ErrorCount())
	}
}
