// Package cfg is the basic-block and control-flow-graph container the
// lowering walker builds into (spec §3 BasicBlock/CFG, §4.2 edge
// primitives).
package cfg

import (
	"cfglower/internal/instr"
	"cfglower/internal/source"
	"cfglower/internal/symbols"
)

// BlockFlags is a bitset of facts about a block beyond its terminator.
type BlockFlags uint32

// WasJumpDestination is set on a block the first time any edge targets it
// (spec §3 "Flags include WAS_JUMP_DESTINATION").
const WasJumpDestination BlockFlags = 1 << 0

// Entry is one (destination, location, instruction) triple inside a block
// (spec §3). IsSynthetic marks instructions the walker inserted that do
// not correspond to user source.
type Entry struct {
	Dest        symbols.LocalVariable
	Loc         source.Location
	Instr       instr.Instruction
	IsSynthetic bool
}

// Terminator carries the block's single exit. Cond is symbols.NoVariable()
// for an unconditional jump; Then and Else are equal in that case (spec
// §4.2: "both successor fields equal to the unconditional target").
type Terminator struct {
	Cond Cond
	Then *BasicBlock
	Else *BasicBlock
	Loc  source.Location
}

// Cond is the condition operand of a terminator.
type Cond = symbols.LocalVariable

// BasicBlock is a maximal straight-line instruction sequence with one
// entry and, once the walk completes on any path touching it, one
// terminator (spec §3, I1).
type BasicBlock struct {
	ID          int
	LoopDepth   int
	RubyBlockID int
	Entries     []Entry
	BackEdges   []*BasicBlock
	Terminator  *Terminator
	Flags       BlockFlags
}

// Append adds an instruction to the block's instruction list.
func (b *BasicBlock) Append(dest symbols.LocalVariable, loc source.Location, ins instr.Instruction) {
	b.Entries = append(b.Entries, Entry{Dest: dest, Loc: loc, Instr: ins})
}

// Synthesize adds a compiler-inserted instruction, marking it synthetic
// (spec §4.1, §3 "is_synthetic flag").
func (b *BasicBlock) Synthesize(dest symbols.LocalVariable, loc source.Location, ins instr.Instruction) {
	b.Entries = append(b.Entries, Entry{Dest: dest, Loc: loc, Instr: ins, IsSynthetic: true})
}

// HasTerminator reports whether the block's exit has been set.
func (b *BasicBlock) HasTerminator() bool {
	return b.Terminator != nil
}
