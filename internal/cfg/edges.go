package cfg

import (
	"fmt"

	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// setTerminator enforces the shared precondition of every edge primitive:
// if from is the dead block the operation is a no-op; otherwise from's
// terminator must be unset (spec §4.2, I1, §7.3 "structural invariant
// violations ... treats it as a bug and aborts").
func (c *CFG) setTerminator(from *BasicBlock, t Terminator) {
	if from == c.Dead {
		return
	}
	if from.HasTerminator() {
		panic(fmt.Sprintf("cfg: block %d already has a terminator set", from.ID))
	}
	from.Terminator = &t
}

// markJumpDestination flags to as having been targeted by an edge. Unlike
// addBackEdge, this runs regardless of whether from is the dead block
// (builder_walk.cc conditionalJump/unconditionalJump set WAS_JUMP_DESTINATION
// before checking against the dead block).
func markJumpDestination(to *BasicBlock) {
	to.Flags |= WasJumpDestination
}

func addBackEdge(to, from *BasicBlock) {
	to.BackEdges = append(to.BackEdges, from)
}

// ConditionalJump sets from's terminator to branch on cond, true to thenB,
// false to elseB, and records back-edges into both successors (spec §4.2).
// cond must be a real local, never symbols.NoVariable().
func (c *CFG) ConditionalJump(from *BasicBlock, cond symbols.LocalVariable, thenB, elseB *BasicBlock, loc source.Location) {
	markJumpDestination(thenB)
	markJumpDestination(elseB)
	if from == c.Dead {
		return
	}
	if cond.IsNoVariable() {
		panic("cfg: ConditionalJump requires a real local, got the no-variable sentinel")
	}
	addBackEdge(thenB, from)
	addBackEdge(elseB, from)
	c.setTerminator(from, Terminator{Cond: cond, Then: thenB, Else: elseB, Loc: loc})
}

// UnconditionalJump sets from's terminator to an unconditional jump to to:
// cond is the no-variable sentinel, and both successor fields equal to
// (spec §4.2).
func (c *CFG) UnconditionalJump(from, to *BasicBlock, loc source.Location) {
	markJumpDestination(to)
	if from == c.Dead {
		return
	}
	addBackEdge(to, from)
	c.setTerminator(from, Terminator{Cond: symbols.NoVariable(), Then: to, Else: to, Loc: loc})
}

// JumpToDead is an unconditional jump whose target is the CFG's dead
// block (spec §4.2, I4 "the dead assign-then-jump pattern").
func (c *CFG) JumpToDead(from *BasicBlock, loc source.Location) {
	c.UnconditionalJump(from, c.Dead, loc)
}
