package sil

import "fmt"

// Successor is one outgoing edge slot of a terminator. While it has a target
// it is threaded into the target block's predecessor list, so a block can
// enumerate the edges that reach it without scanning the function.
//
// Successors live inside their terminator and must not be copied; use the
// pointers handed out by Successors, BranchData and CondBranchData.
type Successor struct {
	owner  *Inst
	target *Block
	prev   *Successor
	next   *Successor
}

// Init binds the slot to its owning terminator. It must run before the first
// Set so the predecessor list can attribute the edge.
func (s *Successor) Init(owner *Inst) {
	if s.owner != nil {
		panic("sil: successor initialized twice")
	}
	s.owner = owner
}

// Set retargets the edge, deregistering it from the old target first.
// A nil target detaches the edge.
func (s *Successor) Set(target *Block) {
	if s.owner == nil {
		panic("sil: successor assigned before Init")
	}
	if s.target == target {
		return
	}
	if target != nil && target.fn != s.owner.fn {
		panic(fmt.Sprintf("sil: edge from %s into a block of another function", s.owner.fn.Name))
	}
	if s.target != nil {
		s.target.unlinkPred(s)
	}
	s.target = target
	if target != nil {
		target.linkPred(s)
	}
}

// Target returns the destination block, or nil when detached.
func (s *Successor) Target() *Block { return s.target }

// Owner returns the terminator holding this slot.
func (s *Successor) Owner() *Inst { return s.owner }

// Successors returns the edge slots of a terminator in their semantic order:
// empty for unreachable and return, [dest] for br, [true, false] for
// condbranch. The pointers address the slots inside the instruction.
// Calling Successors on a non-terminator panics.
func (i *Inst) Successors() []*Successor {
	i.live()
	switch i.kind {
	case KindUnreachable, KindReturn:
		return nil
	case KindBranch:
		return []*Successor{&i.br.dests[0]}
	case KindCondBranch:
		return []*Successor{&i.condBr.dests[0], &i.condBr.dests[1]}
	default:
		unreachablef("successors requested from non-terminator %s %%%d", i.kind, i.id)
		return nil
	}
}

// NumSuccessors reports the number of edge slots of a terminator.
func (i *Inst) NumSuccessors() int {
	return len(i.Successors())
}

// SuccessorBlocks returns the targets of a terminator in slot order.
func (i *Inst) SuccessorBlocks() []*Block {
	succs := i.Successors()
	if len(succs) == 0 {
		return nil
	}
	out := make([]*Block, len(succs))
	for n, s := range succs {
		out[n] = s.Target()
	}
	return out
}
