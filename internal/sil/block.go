package sil

import (
	"fmt"
	"iter"
)

// Block is a basic block: an ordered list of instructions that, once
// complete, ends in exactly one terminator.
//
// The list is threaded through the instructions' prev/next IDs. Every
// mutation goes through the methods below, which keep each member's parent
// back-reference in sync with the list it is on.
type Block struct {
	fn     *Func
	id     BlockID
	head   InstID
	tail   InstID
	count  int
	inFunc bool
	erased bool

	predHead *Successor
	numPreds int
}

func resetBlock(b *Block) {
	*b = Block{id: NoBlockID, head: NoInstID, tail: NoInstID}
}

func (b *Block) ID() BlockID    { return b.id }
func (b *Block) Func() *Func    { return b.fn }
func (b *Block) String() string { return b.id.String() }
func (b *Block) Len() int       { return b.count }
func (b *Block) Empty() bool    { return b.count == 0 }
func (b *Block) Erased() bool   { return b.erased }

// InFunc reports whether the block is part of its function's layout.
func (b *Block) InFunc() bool { return b.inFunc }

// Front returns the first instruction, or nil.
func (b *Block) Front() *Inst { return b.fn.Inst(b.head) }

// Back returns the last instruction, or nil.
func (b *Block) Back() *Inst { return b.fn.Inst(b.tail) }

// All iterates the instructions in program order. The current instruction
// may be removed or erased by the loop body.
func (b *Block) All() iter.Seq[*Inst] {
	return func(yield func(*Inst) bool) {
		for id := b.head; id != NoInstID; {
			in := b.fn.Inst(id)
			id = in.next
			if !yield(in) {
				return
			}
		}
	}
}

// Backward iterates the instructions from last to first.
func (b *Block) Backward() iter.Seq[*Inst] {
	return func(yield func(*Inst) bool) {
		for id := b.tail; id != NoInstID; {
			in := b.fn.Inst(id)
			id = in.prev
			if !yield(in) {
				return
			}
		}
	}
}

// Insts returns the instructions in program order.
func (b *Block) Insts() []*Inst {
	out := make([]*Inst, 0, b.count)
	for in := range b.All() {
		out = append(out, in)
	}
	return out
}

// Terminator returns the last instruction when it is a terminator.
func (b *Block) Terminator() *Inst {
	if last := b.Back(); last != nil && last.IsTerminator() {
		return last
	}
	return nil
}

// IsClosed reports whether the block already ends in a terminator.
func (b *Block) IsClosed() bool { return b.Terminator() != nil }

// PushBack appends in to the block. A closed block accepts nothing more.
func (b *Block) PushBack(in *Inst) {
	b.addNode(in, nil)
	b.link(in, nil)
}

// PushFront prepends in to the block.
func (b *Block) PushFront(in *Inst) {
	front := b.Front()
	b.addNode(in, front)
	b.link(in, front)
}

// InsertBefore links in immediately before pos, which must be in b.
func (b *Block) InsertBefore(pos, in *Inst) {
	b.checkMember(pos)
	b.addNode(in, pos)
	b.link(in, pos)
}

// InsertAfter links in immediately after pos, which must be in b.
func (b *Block) InsertAfter(pos, in *Inst) {
	b.checkMember(pos)
	next := b.fn.Inst(pos.next)
	b.addNode(in, next)
	b.link(in, next)
}

// Remove unlinks in from the block and clears its parent. The instruction
// itself stays intact.
func (b *Block) Remove(in *Inst) {
	b.checkMember(in)
	b.unlink(in.prev, in.next)
	in.prev, in.next = NoInstID, NoInstID
	in.parent = NoBlockID
	b.count--
}

// Erase unlinks in and destroys it.
func (b *Block) Erase(in *Inst) {
	b.Remove(in)
	in.destroy()
}

// Splice moves the run [first, last) of src in front of pos in b. A nil pos
// appends; a nil last runs to the end of src. last must not precede first,
// and when src is b, pos must not lie inside the run. Terminator placement
// is left to Check.
//
// When src is b itself the members' parent already points here, so the
// per-instruction update pass is skipped and only the links are rewired.
func (b *Block) Splice(pos *Inst, src *Block, first, last *Inst) {
	if src.fn != b.fn {
		panic("sil: splice across functions")
	}
	src.checkMember(first)
	if last != nil {
		src.checkMember(last)
	}
	if pos != nil {
		b.checkMember(pos)
	}
	if first == last {
		return
	}
	if src == b && (pos == last || pos == first) {
		return
	}

	firstID := first.id
	lastID := src.tail
	if last != nil {
		lastID = last.prev
	}

	moved := 0
	for id := firstID; ; {
		if id == NoInstID {
			panic(fmt.Sprintf("sil: splice range in %s ends before %s %%%d", src, first.kind, first.id))
		}
		if src == b && pos != nil && id == pos.id {
			panic(fmt.Sprintf("sil: splice position %s %%%d lies inside the moved range", pos.kind, pos.id))
		}
		moved++
		if id == lastID {
			break
		}
		id = b.fn.Inst(id).next
	}
	end := b.fn.Inst(lastID)

	if src != b {
		for id := firstID; ; {
			in := b.fn.Inst(id)
			in.parent = b.id
			if id == lastID {
				break
			}
			id = in.next
		}
		src.count -= moved
		b.count += moved
	}

	src.unlink(first.prev, end.next)

	before := b.tail
	after := NoInstID
	if pos != nil {
		before, after = pos.prev, pos.id
	}
	first.prev, end.next = before, after
	if before != NoInstID {
		b.fn.Inst(before).next = firstID
	} else {
		b.head = firstID
	}
	if after != NoInstID {
		pos.prev = lastID
	} else {
		b.tail = lastID
	}
}

// SpliceAll moves every instruction of src to the end of b.
func (b *Block) SpliceAll(src *Block) {
	if first := src.Front(); first != nil {
		b.Splice(nil, src, first, nil)
	}
}

// addNode claims in for b ahead of linking it in front of pos (nil pos
// appends). Nothing may follow a terminator.
func (b *Block) addNode(in, pos *Inst) {
	if in.fn != b.fn {
		panic(fmt.Sprintf("sil: %s %%%d belongs to another function", in.kind, in.id))
	}
	in.live()
	if in.parent != NoBlockID {
		panic(fmt.Sprintf("sil: %s %%%d is already in %s", in.kind, in.id, in.parent))
	}
	if b.erased {
		panic(fmt.Sprintf("sil: inserting into erased %s", b))
	}
	if pos == nil && b.IsClosed() {
		panic(fmt.Sprintf("sil: appending %s to closed block %s", in.kind, b))
	}
	if pos != nil && in.IsTerminator() {
		panic(fmt.Sprintf("sil: terminator %s inserted before %s %%%d", in.kind, pos.kind, pos.id))
	}
	in.parent = b.id
}

func (b *Block) checkMember(in *Inst) {
	if in == nil {
		panic("sil: nil instruction")
	}
	if in.parent != b.id || in.fn != b.fn {
		panic(fmt.Sprintf("sil: %s %%%d is not in %s", in.kind, in.id, b))
	}
}

// link threads in in front of pos (nil pos appends).
func (b *Block) link(in, pos *Inst) {
	prev := b.tail
	next := NoInstID
	if pos != nil {
		prev, next = pos.prev, pos.id
	}
	in.prev, in.next = prev, next
	if prev != NoInstID {
		b.fn.Inst(prev).next = in.id
	} else {
		b.head = in.id
	}
	if pos != nil {
		pos.prev = in.id
	} else {
		b.tail = in.id
	}
	b.count++
}

// unlink joins prev and next, dropping whatever lay between them.
func (b *Block) unlink(prev, next InstID) {
	if prev != NoInstID {
		b.fn.Inst(prev).next = next
	} else {
		b.head = next
	}
	if next != NoInstID {
		b.fn.Inst(next).prev = prev
	} else {
		b.tail = prev
	}
}

// Succs returns the successor slots of the block's terminator; an open block
// has none.
func (b *Block) Succs() []*Successor {
	if term := b.Terminator(); term != nil {
		return term.Successors()
	}
	return nil
}

// Preds iterates the edges that target b. Each block reached from several
// slots of one terminator appears once per slot.
func (b *Block) Preds() iter.Seq[*Successor] {
	return func(yield func(*Successor) bool) {
		for s := b.predHead; s != nil; {
			next := s.next
			if !yield(s) {
				return
			}
			s = next
		}
	}
}

// NumPreds reports the number of incoming edges.
func (b *Block) NumPreds() int { return b.numPreds }

// PredBlocks returns the blocks whose terminators branch to b, one entry per
// edge. Edges owned by unlinked terminators are skipped.
func (b *Block) PredBlocks() []*Block {
	out := make([]*Block, 0, b.numPreds)
	for s := range b.Preds() {
		if owner := s.Owner(); owner.HasParent() {
			out = append(out, owner.Parent())
		}
	}
	return out
}

// SinglePredecessor returns the only predecessor block, or nil when there
// are zero or several incoming edges.
func (b *Block) SinglePredecessor() *Block {
	if b.numPreds != 1 || !b.predHead.owner.HasParent() {
		return nil
	}
	return b.predHead.owner.Parent()
}

func (b *Block) linkPred(s *Successor) {
	s.prev = nil
	s.next = b.predHead
	if b.predHead != nil {
		b.predHead.prev = s
	}
	b.predHead = s
	b.numPreds++
}

func (b *Block) unlinkPred(s *Successor) {
	if s.prev != nil {
		s.prev.next = s.next
	} else {
		b.predHead = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	}
	s.prev, s.next = nil, nil
	b.numPreds--
}
