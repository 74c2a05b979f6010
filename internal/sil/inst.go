package sil

import (
	"fmt"

	"sil/internal/types"
)

// Inst is one IR operation. Instructions are created by Func constructors,
// live at a fixed address in the function's pool and must not be copied.
//
// Only one payload group is meaningful for a given kind; the family accessors
// (Call, Unary, CondBranch, ...) check the kind before handing it out.
type Inst struct {
	fn      *Func
	id      InstID
	kind    Kind
	loc     Location
	results []types.TypeID
	erased  bool

	// block membership, maintained by Block only
	parent BlockID
	prev   InstID
	next   InstID

	alloc    AllocData
	call     CallData
	constant ConstantRefData
	unary    UnaryData
	store    StoreData
	copyAddr CopyAddrData
	spec     SpecializeData
	tuple    TupleData
	extract  ExtractData
	dealloc  DeallocVarData
	index    IndexAddrData
	intValue IntegerValueData
	ret      ReturnData
	br       BranchData
	condBr   CondBranchData
}

func resetInst(i *Inst) {
	*i = Inst{parent: NoBlockID, prev: NoInstID, next: NoInstID}
}

func (i *Inst) ID() InstID     { return i.id }
func (i *Inst) Func() *Func    { return i.fn }
func (i *Inst) Kind() Kind     { return i.kind }
func (i *Inst) Erased() bool   { return i.erased }
func (i *Inst) Is(k Kind) bool { return i.kind == k }

func (i *Inst) Loc() Location {
	i.live()
	return i.loc
}

// IsTerminator reports whether i ends its block.
func (i *Inst) IsTerminator() bool { return i.kind.IsTerminator() }

// NumResults reports how many values i produces.
func (i *Inst) NumResults() int {
	i.live()
	return len(i.results)
}

// ResultType returns the type of result n.
func (i *Inst) ResultType(n int) types.TypeID {
	i.live()
	if n < 0 || n >= len(i.results) {
		panic(fmt.Sprintf("sil: %s %%%d has no result %d", i.kind, i.id, n))
	}
	return i.results[n]
}

// ResultTypes exposes the result type list. Callers must not modify it.
func (i *Inst) ResultTypes() []types.TypeID {
	i.live()
	return i.results
}

// Type returns the type of a single-result instruction.
func (i *Inst) Type() types.TypeID {
	i.live()
	if len(i.results) != 1 {
		panic(fmt.Sprintf("sil: %s %%%d has %d results, not one", i.kind, i.id, len(i.results)))
	}
	return i.results[0]
}

// Result returns a reference to result n.
func (i *Inst) Result(n int) Value {
	i.ResultType(n)
	return Value{Def: i.id, Result: uint32(n)} //nolint:gosec // n checked against len(results)
}

// HasParent reports whether i is linked into a block.
func (i *Inst) HasParent() bool { return i.parent != NoBlockID }

// Parent returns the block i is linked into. Calling it on an unlinked
// instruction panics.
func (i *Inst) Parent() *Block {
	if i.parent == NoBlockID {
		panic(fmt.Sprintf("sil: %s %%%d is not linked into a block", i.kind, i.id))
	}
	return i.fn.Block(i.parent)
}

// Next returns the following instruction in the block, or nil.
func (i *Inst) Next() *Inst {
	if i.parent == NoBlockID {
		return nil
	}
	return i.fn.Inst(i.next)
}

// Prev returns the preceding instruction in the block, or nil.
func (i *Inst) Prev() *Inst {
	if i.parent == NoBlockID {
		return nil
	}
	return i.fn.Inst(i.prev)
}

// RemoveFromParent unlinks i from its block without destroying it. Values
// other instructions hold for i's results keep resolving.
func (i *Inst) RemoveFromParent() {
	i.Parent().Remove(i)
}

// EraseFromParent unlinks i and destroys it.
func (i *Inst) EraseFromParent() {
	i.Parent().Erase(i)
}

// Destroy tears down an unlinked instruction: successor edges are detached,
// payload and result types are dropped. Destroying a linked instruction panics.
func (i *Inst) Destroy() {
	if i.parent != NoBlockID {
		panic(fmt.Sprintf("sil: destroying %s %%%d while it is still in %s", i.kind, i.id, i.parent))
	}
	i.destroy()
}

func (i *Inst) destroy() {
	i.live()
	switch i.kind {
	case KindBranch:
		i.br.dests[0].Set(nil)
	case KindCondBranch:
		i.condBr.dests[0].Set(nil)
		i.condBr.dests[1].Set(nil)
	}
	kind, id, fn := i.kind, i.id, i.fn
	resetInst(i)
	i.fn, i.id, i.kind = fn, id, kind
	i.erased = true
}

func (i *Inst) live() {
	if i.erased {
		panic(fmt.Sprintf("sil: use of erased %s %%%d", i.kind, i.id))
	}
}

func (i *Inst) expect(ok bool, want string) {
	i.live()
	if !ok {
		unreachablef("%s %%%d is not %s", i.kind, i.id, want)
	}
}

// unreachablef reports an internal consistency bug.
func unreachablef(format string, args ...any) {
	panic("sil: unreachable: " + fmt.Sprintf(format, args...))
}

func (i *Inst) String() string {
	if i.erased {
		return fmt.Sprintf("%%%d = <erased %s>", i.id, i.kind)
	}
	return fmt.Sprintf("%%%d = %s", i.id, i.kind)
}
