package sil

import (
	"fmt"

	"sil/internal/ast"
	"sil/internal/symbols"
	"sil/internal/types"
)

// Builder creates instructions and links them at an insertion point. It
// refuses to grow a block past its terminator, so blocks built through it
// always end in exactly one terminator.
type Builder struct {
	fn     *Func
	block  *Block
	before *Inst
}

// NewBuilder returns a builder for f with no insertion point.
func NewBuilder(f *Func) *Builder {
	return &Builder{fn: f}
}

// Func and Block report where the builder inserts.
func (b *Builder) Func() *Func   { return b.fn }
func (b *Builder) Block() *Block { return b.block }

// SetInsertPoint makes the builder append to blk.
func (b *Builder) SetInsertPoint(blk *Block) {
	if blk.fn != b.fn {
		panic(fmt.Sprintf("sil: builder for %s positioned in another function", b.fn.Name))
	}
	b.block, b.before = blk, nil
}

// SetInsertBefore makes the builder insert in front of in.
func (b *Builder) SetInsertBefore(in *Inst) {
	b.SetInsertPoint(in.Parent())
	b.before = in
}

// Insert links an already constructed instruction at the insertion point.
// An instruction that cannot be placed is destroyed before the panic so it
// leaves no edges behind.
func (b *Builder) Insert(in *Inst) *Inst {
	if b.block == nil {
		panic("sil: builder has no insertion point")
	}
	if b.before == nil {
		if b.block.IsClosed() {
			in.destroy()
			panic(fmt.Sprintf("sil: appending %s to closed block %s", in.kind, b.block))
		}
		b.block.PushBack(in)
		return in
	}
	if in.IsTerminator() {
		in.destroy()
		panic(fmt.Sprintf("sil: terminator %s inserted before %s %%%d", in.kind, b.before.kind, b.before.id))
	}
	b.block.InsertBefore(b.before, in)
	return in
}

// CreateAllocVar constructs with NewAllocVar and inserts the result.
func (b *Builder) CreateAllocVar(loc Location, kind AllocKind, elem types.TypeID) *Inst {
	return b.Insert(b.fn.NewAllocVar(loc, kind, elem))
}

// CreateAllocVarDecl constructs with NewAllocVarDecl and inserts the result.
func (b *Builder) CreateAllocVarDecl(decl ast.DeclID, kind AllocKind) *Inst {
	return b.Insert(b.fn.NewAllocVarDecl(decl, kind))
}

// CreateAllocBox constructs with NewAllocBox and inserts the result.
func (b *Builder) CreateAllocBox(loc Location, elem types.TypeID) *Inst {
	return b.Insert(b.fn.NewAllocBox(loc, elem))
}

// CreateAllocArray constructs with NewAllocArray and inserts the result.
func (b *Builder) CreateAllocArray(loc Location, elem types.TypeID, n Value) *Inst {
	return b.Insert(b.fn.NewAllocArray(loc, elem, n))
}

// CreateApply constructs with NewApply and inserts the result.
func (b *Builder) CreateApply(loc Location, callee Value, args ...Value) *Inst {
	return b.Insert(b.fn.NewApply(loc, callee, args))
}

// CreateClosure constructs with NewClosure and inserts the result.
func (b *Builder) CreateClosure(loc Location, callee Value, args ...Value) *Inst {
	return b.Insert(b.fn.NewClosure(loc, callee, args))
}

// CreateConstantRef constructs with NewConstantRef and inserts the result.
func (b *Builder) CreateConstantRef(loc Location, c symbols.Constant) *Inst {
	return b.Insert(b.fn.NewConstantRef(loc, c))
}

// CreateZeroValue constructs with NewZeroValue and inserts the result.
func (b *Builder) CreateZeroValue(loc Location, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewZeroValue(loc, ty))
}

// CreateIntegerLiteral constructs with NewIntegerLiteral and inserts the result.
func (b *Builder) CreateIntegerLiteral(expr ast.ExprID) *Inst {
	return b.Insert(b.fn.NewIntegerLiteral(expr))
}

// CreateFloatLiteral constructs with NewFloatLiteral and inserts the result.
func (b *Builder) CreateFloatLiteral(expr ast.ExprID) *Inst {
	return b.Insert(b.fn.NewFloatLiteral(expr))
}

// CreateStringLiteral constructs with NewStringLiteral and inserts the result.
func (b *Builder) CreateStringLiteral(expr ast.ExprID) *Inst {
	return b.Insert(b.fn.NewStringLiteral(expr))
}

// CreateMetatype constructs with NewMetatype and inserts the result.
func (b *Builder) CreateMetatype(expr ast.ExprID) *Inst {
	return b.Insert(b.fn.NewMetatype(expr))
}

// CreateIntegerValue constructs with NewIntegerValue and inserts the result.
func (b *Builder) CreateIntegerValue(val uint64, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewIntegerValue(val, ty))
}

// CreateLoad constructs with NewLoad and inserts the result.
func (b *Builder) CreateLoad(loc Location, addr Value) *Inst {
	return b.Insert(b.fn.NewLoad(loc, addr))
}

// CreateStore constructs with NewStore and inserts the result.
func (b *Builder) CreateStore(loc Location, src, dest Value) *Inst {
	return b.Insert(b.fn.NewStore(loc, src, dest))
}

// CreateCopyAddr constructs with NewCopyAddr and inserts the result.
func (b *Builder) CreateCopyAddr(loc Location, src, dest Value, takeOfSrc, initOfDest bool) *Inst {
	return b.Insert(b.fn.NewCopyAddr(loc, src, dest, takeOfSrc, initOfDest))
}

// CreateIndexAddr constructs with NewIndexAddr and inserts the result.
func (b *Builder) CreateIndexAddr(loc Location, operand Value, index uint32) *Inst {
	return b.Insert(b.fn.NewIndexAddr(loc, operand, index))
}

// CreateSpecialize constructs with NewSpecialize and inserts the result.
func (b *Builder) CreateSpecialize(loc Location, operand Value, subs []types.Substitution, dest types.TypeID) *Inst {
	return b.Insert(b.fn.NewSpecialize(loc, operand, subs, dest))
}

// CreateImplicitConvert constructs with NewImplicitConvert and inserts the result.
func (b *Builder) CreateImplicitConvert(loc Location, operand Value, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewImplicitConvert(loc, operand, ty))
}

// CreateCoerce constructs with NewCoerce and inserts the result.
func (b *Builder) CreateCoerce(loc Location, operand Value, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewCoerce(loc, operand, ty))
}

// CreateDowncast constructs with NewDowncast and inserts the result.
func (b *Builder) CreateDowncast(loc Location, operand Value, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewDowncast(loc, operand, ty))
}

// CreateTuple constructs with NewTuple and inserts the result.
func (b *Builder) CreateTuple(loc Location, ty types.TypeID, elems ...Value) *Inst {
	return b.Insert(b.fn.NewTuple(loc, elems, ty))
}

// CreateExtract constructs with NewExtract and inserts the result.
func (b *Builder) CreateExtract(loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewExtract(loc, operand, fieldNo, ty))
}

// CreateElementAddr constructs with NewElementAddr and inserts the result.
func (b *Builder) CreateElementAddr(loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewElementAddr(loc, operand, fieldNo, ty))
}

// CreateRefElementAddr constructs with NewRefElementAddr and inserts the result.
func (b *Builder) CreateRefElementAddr(loc Location, operand Value, fieldNo uint32, ty types.TypeID) *Inst {
	return b.Insert(b.fn.NewRefElementAddr(loc, operand, fieldNo, ty))
}

// CreateRetain constructs with NewRetain and inserts the result.
func (b *Builder) CreateRetain(loc Location, operand Value) *Inst {
	return b.Insert(b.fn.NewRetain(loc, operand))
}

// CreateRelease constructs with NewRelease and inserts the result.
func (b *Builder) CreateRelease(loc Location, operand Value) *Inst {
	return b.Insert(b.fn.NewRelease(loc, operand))
}

// CreateDeallocVar constructs with NewDeallocVar and inserts the result.
func (b *Builder) CreateDeallocVar(loc Location, kind AllocKind, operand Value) *Inst {
	return b.Insert(b.fn.NewDeallocVar(loc, kind, operand))
}

// CreateDestroyAddr constructs with NewDestroyAddr and inserts the result.
func (b *Builder) CreateDestroyAddr(loc Location, operand Value) *Inst {
	return b.Insert(b.fn.NewDestroyAddr(loc, operand))
}

// CreateUnreachable constructs with NewUnreachable and inserts the result.
func (b *Builder) CreateUnreachable(loc Location) *Inst {
	return b.Insert(b.fn.NewUnreachable(loc))
}

// CreateReturn constructs with NewReturn and inserts the result.
func (b *Builder) CreateReturn(loc Location, v Value) *Inst {
	return b.Insert(b.fn.NewReturn(loc, v))
}

// CreateBranch constructs with NewBranch and inserts the result.
func (b *Builder) CreateBranch(loc Location, dest *Block) *Inst {
	return b.Insert(b.fn.NewBranch(loc, dest))
}

// CreateCondBranch constructs with NewCondBranch and inserts the result.
func (b *Builder) CreateCondBranch(loc Location, cond Value, ifTrue, ifFalse *Block) *Inst {
	return b.Insert(b.fn.NewCondBranch(loc, cond, ifTrue, ifFalse))
}
