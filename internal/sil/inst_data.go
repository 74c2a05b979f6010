package sil

import (
	"sil/internal/symbols"
	"sil/internal/types"
)

// AllocData is the payload of alloc_var, alloc_box and alloc_array.
type AllocData struct {
	ElemType    types.TypeID
	NumElements Value // alloc_array only
	Kind        AllocKind
}

// CallData is the payload of apply and closure. The argument list is a
// trailing record carved from the function arena.
type CallData struct {
	Callee Value
	args   []Value
}

func (c *CallData) NumArgs() int    { return len(c.args) }
func (c *CallData) Arg(n int) Value { return c.args[n] }
func (c *CallData) Args() []Value   { return c.args }

// ConstantRefData is the payload of constant_ref.
type ConstantRefData struct {
	Constant symbols.Constant
}

// UnaryData is the payload of single-operand instructions: load, retain,
// release, destroy_addr and the conversions.
type UnaryData struct {
	Operand Value
}

// StoreData is the payload of store.
type StoreData struct {
	Src  Value
	Dest Value
}

// CopyAddrData is the payload of copy_addr.
type CopyAddrData struct {
	Src                    Value
	Dest                   Value
	IsTakeOfSrc            bool
	IsInitializationOfDest bool
}

// SpecializeData is the payload of specialize; substitutions are a trailing
// record carved from the function arena.
type SpecializeData struct {
	Operand Value
	subs    []types.Substitution
}

func (s *SpecializeData) NumSubstitutions() int                 { return len(s.subs) }
func (s *SpecializeData) Substitution(n int) types.Substitution { return s.subs[n] }
func (s *SpecializeData) Substitutions() []types.Substitution   { return s.subs }

// TupleData is the payload of tuple; elements are a trailing record.
type TupleData struct {
	elems []Value
}

func (t *TupleData) NumElements() int    { return len(t.elems) }
func (t *TupleData) Element(n int) Value { return t.elems[n] }
func (t *TupleData) Elements() []Value   { return t.elems }

// ExtractData is the payload of extract, element_addr and ref_element_addr.
type ExtractData struct {
	Operand Value
	FieldNo uint32
}

// DeallocVarData is the payload of dealloc_var.
type DeallocVarData struct {
	Kind    AllocKind
	Operand Value
}

// IndexAddrData is the payload of index_addr.
type IndexAddrData struct {
	Operand Value
	Index   uint32
}

// IntegerValueData is the payload of integer_value.
type IntegerValueData struct {
	Val uint64
}

// ReturnData is the payload of return.
type ReturnData struct {
	Value Value
}

// BranchData is the payload of br.
type BranchData struct {
	dests [1]Successor
}

// Dest returns the branch target.
func (b *BranchData) Dest() *Block { return b.dests[0].Target() }

// Edge returns the successor slot.
func (b *BranchData) Edge() *Successor { return &b.dests[0] }

// CondBranchData is the payload of condbranch: slot 0 is taken when Cond is
// true, slot 1 otherwise.
type CondBranchData struct {
	Cond  Value
	dests [2]Successor
}

// TrueBlock and FalseBlock return the slot targets; TrueEdge and FalseEdge
// return the slots.
func (c *CondBranchData) TrueBlock() *Block     { return c.dests[0].Target() }
func (c *CondBranchData) FalseBlock() *Block    { return c.dests[1].Target() }
func (c *CondBranchData) TrueEdge() *Successor  { return &c.dests[0] }
func (c *CondBranchData) FalseEdge() *Successor { return &c.dests[1] }

// Family accessors. Each one is a checked downcast.

func (i *Inst) Alloc() *AllocData {
	i.expect(i.kind.IsAllocation(), "an allocation")
	return &i.alloc
}

func (i *Inst) Call() *CallData {
	i.expect(i.kind.IsCall(), "apply or closure")
	return &i.call
}

func (i *Inst) ConstantRef() *ConstantRefData {
	i.expect(i.kind == KindConstantRef, "constant_ref")
	return &i.constant
}

func (i *Inst) Unary() *UnaryData {
	switch i.kind {
	case KindLoad, KindRetain, KindRelease, KindDestroyAddr,
		KindImplicitConvert, KindCoerce, KindDowncast:
		i.live()
	default:
		i.expect(false, "a single-operand instruction")
	}
	return &i.unary
}

func (i *Inst) Store() *StoreData {
	i.expect(i.kind == KindStore, "store")
	return &i.store
}

func (i *Inst) CopyAddr() *CopyAddrData {
	i.expect(i.kind == KindCopyAddr, "copy_addr")
	return &i.copyAddr
}

func (i *Inst) Specialize() *SpecializeData {
	i.expect(i.kind == KindSpecialize, "specialize")
	return &i.spec
}

func (i *Inst) Tuple() *TupleData {
	i.expect(i.kind == KindTuple, "tuple")
	return &i.tuple
}

func (i *Inst) Extract() *ExtractData {
	i.expect(i.kind.IsProjection(), "a projection")
	return &i.extract
}

func (i *Inst) DeallocVar() *DeallocVarData {
	i.expect(i.kind == KindDeallocVar, "dealloc_var")
	return &i.dealloc
}

func (i *Inst) IndexAddr() *IndexAddrData {
	i.expect(i.kind == KindIndexAddr, "index_addr")
	return &i.index
}

func (i *Inst) IntegerValue() *IntegerValueData {
	i.expect(i.kind == KindIntegerValue, "integer_value")
	return &i.intValue
}

func (i *Inst) Return() *ReturnData {
	i.expect(i.kind == KindReturn, "return")
	return &i.ret
}

func (i *Inst) Branch() *BranchData {
	i.expect(i.kind == KindBranch, "br")
	return &i.br
}

func (i *Inst) CondBranch() *CondBranchData {
	i.expect(i.kind == KindCondBranch, "condbranch")
	return &i.condBr
}

// Operands lists every value i reads, in a fixed per-kind order.
func (i *Inst) Operands() []Value {
	i.live()
	switch i.kind {
	case KindAllocArray:
		return []Value{i.alloc.NumElements}
	case KindApply, KindClosure:
		out := make([]Value, 0, 1+len(i.call.args))
		out = append(out, i.call.Callee)
		return append(out, i.call.args...)
	case KindLoad, KindRetain, KindRelease, KindDestroyAddr,
		KindImplicitConvert, KindCoerce, KindDowncast:
		return []Value{i.unary.Operand}
	case KindStore:
		return []Value{i.store.Src, i.store.Dest}
	case KindCopyAddr:
		return []Value{i.copyAddr.Src, i.copyAddr.Dest}
	case KindSpecialize:
		return []Value{i.spec.Operand}
	case KindTuple:
		return append([]Value(nil), i.tuple.elems...)
	case KindExtract, KindElementAddr, KindRefElementAddr:
		return []Value{i.extract.Operand}
	case KindDeallocVar:
		return []Value{i.dealloc.Operand}
	case KindIndexAddr:
		return []Value{i.index.Operand}
	case KindReturn:
		return []Value{i.ret.Value}
	case KindCondBranch:
		return []Value{i.condBr.Cond}
	default:
		return nil
	}
}
