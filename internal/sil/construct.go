package sil

import (
	"fmt"

	"sil/internal/ast"
	"sil/internal/symbols"
	"sil/internal/types"
)

// Constructors create unlinked instructions owned by f. Link them with the
// Block list operations or create them through a Builder.

// NewAllocVar allocates a variable of type elem; the result is its address.
func (f *Func) NewAllocVar(loc Location, kind AllocKind, elem types.TypeID) *Inst {
	in := f.newInst(KindAllocVar, loc, f.Types().LValue(elem, types.QualDefault))
	in.alloc = AllocData{ElemType: elem, NumElements: NoValue, Kind: kind}
	return in
}

// NewAllocBox allocates a heap box holding elem. Result 0 is the box
// reference and result 1 the address of its contents.
func (f *Func) NewAllocBox(loc Location, elem types.TypeID) *Inst {
	in := f.newInst(KindAllocBox, loc, f.boxResults(elem)...)
	in.alloc = AllocData{ElemType: elem, NumElements: NoValue, Kind: AllocHeap}
	return in
}

// NewAllocArray allocates n elements of elem on the heap; n is an integer
// value.
func (f *Func) NewAllocArray(loc Location, elem types.TypeID, n Value) *Inst {
	f.use(n)
	in := f.newInst(KindAllocArray, loc, f.boxResults(elem)...)
	in.alloc = AllocData{ElemType: elem, NumElements: n, Kind: AllocHeap}
	return in
}

func (f *Func) boxResults(elem types.TypeID) []types.TypeID {
	return []types.TypeID{
		f.Types().Builtins().ObjectPointer,
		f.Types().LValue(elem, types.QualDefault),
	}
}

// NewApply calls callee, which must have a function type, with args.
func (f *Func) NewApply(loc Location, callee Value, args []Value) *Inst {
	fnTy := f.use(callee)
	f.useAll(args)
	in := f.newInst(KindApply, loc, f.Types().FnResult(fnTy))
	in.call = CallData{Callee: callee, args: f.values.Copy(args)}
	return in
}

// NewClosure partially applies callee to the captured args.
func (f *Func) NewClosure(loc Location, callee Value, args []Value) *Inst {
	fnTy := f.use(callee)
	f.useAll(args)
	in := f.newInst(KindClosure, loc, fnTy)
	in.call = CallData{Callee: callee, args: f.values.Copy(args)}
	return in
}

// NewConstantRef names the constant c; the result type is resolved by the
// module.
func (f *Func) NewConstantRef(loc Location, c symbols.Constant) *Inst {
	in := f.newInst(KindConstantRef, loc, f.module.ConstantType(c))
	in.constant = ConstantRefData{Constant: c}
	return in
}

// NewZeroValue produces the zero value of ty.
func (f *Func) NewZeroValue(loc Location, ty types.TypeID) *Inst {
	return f.newInst(KindZeroValue, loc, ty)
}

// NewIntegerLiteral materializes an integer or character literal. The value
// itself is read back from the expression on demand.
func (f *Func) NewIntegerLiteral(expr ast.ExprID) *Inst {
	e := f.literal(expr, ast.ExprIntegerLit, ast.ExprCharacterLit)
	return f.newInst(KindIntegerLiteral, AtExpr(expr), e.Type)
}

// NewFloatLiteral materializes a floating-point literal expression.
func (f *Func) NewFloatLiteral(expr ast.ExprID) *Inst {
	e := f.literal(expr, ast.ExprFloatLit)
	return f.newInst(KindFloatLiteral, AtExpr(expr), e.Type)
}

// NewStringLiteral materializes a string literal expression.
func (f *Func) NewStringLiteral(expr ast.ExprID) *Inst {
	e := f.literal(expr, ast.ExprStringLit)
	return f.newInst(KindStringLiteral, AtExpr(expr), e.Type)
}

// NewMetatype produces the metatype value named by expr.
func (f *Func) NewMetatype(expr ast.ExprID) *Inst {
	e := f.literal(expr, ast.ExprMetatype)
	return f.newInst(KindMetatype, AtExpr(expr), e.Type)
}

func (f *Func) literal(expr ast.ExprID, kinds ...ast.ExprKind) *ast.Expr {
	e := f.module.Nodes.Exprs.Get(expr)
	if e == nil {
		panic(fmt.Sprintf("sil: unknown expression %d", expr))
	}
	for _, k := range kinds {
		if e.Kind == k {
			return e
		}
	}
	panic(fmt.Sprintf("sil: expression %d is a %s, want %v", expr, e.Kind, kinds))
}

// NewIntegerValue is an integer constant with no source analog; it is always
// synthetic.
func (f *Func) NewIntegerValue(val uint64, ty types.TypeID) *Inst {
	in := f.newInst(KindIntegerValue, Synthetic(), ty)
	in.intValue = IntegerValueData{Val: val}
	return in
}

// NewLoad reads through addr; the result is the object type of the address.
func (f *Func) NewLoad(loc Location, addr Value) *Inst {
	ty := f.use(addr)
	in := f.newInst(KindLoad, loc, f.Types().RValueType(ty))
	in.unary = UnaryData{Operand: addr}
	return in
}

// NewStore writes src to the address dest. It has no results.
func (f *Func) NewStore(loc Location, src, dest Value) *Inst {
	f.use(src)
	f.use(dest)
	in := f.newInst(KindStore, loc)
	in.store = StoreData{Src: src, Dest: dest}
	return in
}

// NewCopyAddr copies the value at src to dest. takeOfSrc moves instead of
// copying; initOfDest writes to uninitialized memory.
func (f *Func) NewCopyAddr(loc Location, src, dest Value, takeOfSrc, initOfDest bool) *Inst {
	f.use(src)
	f.use(dest)
	in := f.newInst(KindCopyAddr, loc)
	in.copyAddr = CopyAddrData{
		Src:                    src,
		Dest:                   dest,
		IsTakeOfSrc:            takeOfSrc,
		IsInitializationOfDest: initOfDest,
	}
	return in
}

// NewIndexAddr offsets an address by index elements; the result keeps the
// operand's type.
func (f *Func) NewIndexAddr(loc Location, operand Value, index uint32) *Inst {
	in := f.newInst(KindIndexAddr, loc, f.use(operand))
	in.index = IndexAddrData{Operand: operand, Index: index}
	return in
}

// NewSpecialize binds operand's generic parameters with subs, producing dest.
func (f *Func) NewSpecialize(loc Location, operand Value, subs []types.Substitution, dest types.TypeID) *Inst {
	f.use(operand)
	in := f.newInst(KindSpecialize, loc, dest)
	in.spec = SpecializeData{Operand: operand, subs: f.substs.Copy(subs)}
	return in
}

// NewImplicitConvert converts operand to ty.
func (f *Func) NewImplicitConvert(loc Location, operand Value, ty types.TypeID) *Inst {
	return f.newConversion(KindImplicitConvert, loc, operand, ty)
}

// NewCoerce converts operand to ty.
func (f *Func) NewCoerce(loc Location, operand Value, ty types.TypeID) *Inst {
	return f.newConversion(KindCoerce, loc, operand, ty)
}

// NewDowncast casts the class reference operand to the subclass ty.
func (f *Func) NewDowncast(loc Location, operand Value, ty types.TypeID) *Inst {
	return f.newConversion(KindDowncast, loc, operand, ty)
}

func (f *Func) newConversion(kind Kind, loc Location, operand Value, ty types.TypeID) *Inst {
	f.use(operand)
	in := f.newInst(kind, loc, ty)
	in.unary = UnaryData{Operand: operand}
	return in
}

// NewTuple builds a value of tuple type ty from elems.
func (f *Func) NewTuple(loc Location, elems []Value, ty types.TypeID) *Inst {
	f.useAll(elems)
	in := f.newInst(KindTuple, loc, ty)
	in.tuple = TupleData{elems: f.values.Copy(elems)}
	return in
}

// NewExtract reads field fieldNo of an aggregate value.
func (f *Func) NewExtract(loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	return f.newProjection(KindExtract, loc, operand, fieldNo, ty)
}

// NewElementAddr projects the address of field fieldNo from an aggregate
// address.
func (f *Func) NewElementAddr(loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	return f.newProjection(KindElementAddr, loc, operand, fieldNo, ty)
}

// NewRefElementAddr projects the address of field fieldNo from a class
// reference.
func (f *Func) NewRefElementAddr(loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	return f.newProjection(KindRefElementAddr, loc, operand, fieldNo, ty)
}

func (f *Func) newProjection(kind Kind, loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	f.use(operand)
	in := f.newInst(kind, loc, ty)
	in.extract = ExtractData{Operand: operand, FieldNo: fieldNo}
	return in
}

// NewRetain increments the reference count of operand and passes it through.
func (f *Func) NewRetain(loc Location, operand Value) *Inst {
	in := f.newInst(KindRetain, loc, f.use(operand))
	in.unary = UnaryData{Operand: operand}
	return in
}

// NewRelease decrements the reference count of operand.
func (f *Func) NewRelease(loc Location, operand Value) *Inst {
	f.use(operand)
	in := f.newInst(KindRelease, loc)
	in.unary = UnaryData{Operand: operand}
	return in
}

// NewDeallocVar frees a variable allocated by alloc_var with the same kind.
func (f *Func) NewDeallocVar(loc Location, kind AllocKind, operand Value) *Inst {
	f.use(operand)
	in := f.newInst(KindDeallocVar, loc)
	in.dealloc = DeallocVarData{Kind: kind, Operand: operand}
	return in
}

// NewDestroyAddr destroys the value at the address operand.
func (f *Func) NewDestroyAddr(loc Location, operand Value) *Inst {
	f.use(operand)
	in := f.newInst(KindDestroyAddr, loc)
	in.unary = UnaryData{Operand: operand}
	return in
}

// NewUnreachable ends a block control cannot reach.
func (f *Func) NewUnreachable(loc Location) *Inst {
	return f.newInst(KindUnreachable, loc)
}

// NewReturn returns v from the function.
func (f *Func) NewReturn(loc Location, v Value) *Inst {
	f.use(v)
	in := f.newInst(KindReturn, loc)
	in.ret = ReturnData{Value: v}
	return in
}

// NewBranch jumps to dest.
func (f *Func) NewBranch(loc Location, dest *Block) *Inst {
	in := f.newInst(KindBranch, loc)
	in.br.dests[0].Init(in)
	in.br.dests[0].Set(f.target(dest))
	return in
}

// NewCondBranch branches to ifTrue when cond holds and to ifFalse otherwise.
// Both edge slots are bound to the instruction before either target is set.
func (f *Func) NewCondBranch(loc Location, cond Value, ifTrue, ifFalse *Block) *Inst {
	f.use(cond)
	in := f.newInst(KindCondBranch, loc)
	in.condBr.Cond = cond
	in.condBr.dests[0].Init(in)
	in.condBr.dests[1].Init(in)
	in.condBr.dests[0].Set(f.target(ifTrue))
	in.condBr.dests[1].Set(f.target(ifFalse))
	return in
}

func (f *Func) target(b *Block) *Block {
	if b == nil {
		panic("sil: branch to nil block")
	}
	if b.erased {
		panic(fmt.Sprintf("sil: branch to erased %s", b))
	}
	return b
}

// use returns the type of v, panicking when v does not name a live result
// of f.
func (f *Func) use(v Value) types.TypeID {
	if !v.IsValid() {
		panic("sil: missing operand")
	}
	return f.TypeOf(v)
}

func (f *Func) useAll(vs []Value) {
	for _, v := range vs {
		f.use(v)
	}
}
