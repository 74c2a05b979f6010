package sil

import (
	"math/big"

	"sil/internal/ast"
	"sil/internal/types"
)

// NewAllocVarDecl allocates storage for a variable declaration, located at
// the declaration so Decl can recover it later.
func (f *Func) NewAllocVarDecl(decl ast.DeclID, kind AllocKind) *Inst {
	d := f.module.Nodes.Decls.Get(decl)
	if d == nil || d.Kind != ast.DeclVar {
		unreachablef("alloc_var for non-variable declaration %d", decl)
	}
	return f.NewAllocVar(AtDecl(decl), kind, d.Type)
}

// Decl returns the variable declaration an alloc_var was emitted for. Allocas
// for temporaries have none.
func (i *Inst) Decl() (ast.DeclID, bool) {
	i.expect(i.kind == KindAllocVar, "alloc_var")
	id, ok := i.loc.Decl()
	if !ok {
		return ast.NoDeclID, false
	}
	if d := i.fn.module.Nodes.Decls.Get(id); d == nil || d.Kind != ast.DeclVar {
		return ast.NoDeclID, false
	}
	return id, true
}

// ElementType returns the allocated element type.
func (i *Inst) ElementType() types.TypeID {
	return i.Alloc().ElemType
}

func (i *Inst) literalExpr(kind Kind) *ast.Expr {
	i.expect(i.kind == kind, kind.String())
	id, ok := i.loc.Expr()
	if !ok {
		unreachablef("%s %%%d is not located at an expression", i.kind, i.id)
	}
	e := i.fn.module.Nodes.Exprs.Get(id)
	if e == nil {
		unreachablef("%s %%%d refers to missing expression %d", i.kind, i.id, id)
	}
	return e
}

// IntegerLiteralValue reads the literal back from its expression. Character
// literals produce their 32-bit code point.
func (i *Inst) IntegerLiteralValue() *big.Int {
	e := i.literalExpr(KindIntegerLiteral)
	switch e.Kind {
	case ast.ExprIntegerLit:
		v, ok := new(big.Int).SetString(e.Text, 0)
		if !ok {
			unreachablef("malformed integer literal %q", e.Text)
		}
		return v
	case ast.ExprCharacterLit:
		return new(big.Int).SetUint64(uint64(uint32(e.Char))) //nolint:gosec // code points fit in 32 bits
	default:
		unreachablef("integer_literal %%%d backed by %s", i.id, e.Kind)
		return nil
	}
}

// FloatLiteralValue reads the literal back with enough precision for a
// 64-bit float.
func (i *Inst) FloatLiteralValue() *big.Float {
	e := i.literalExpr(KindFloatLiteral)
	if e.Kind != ast.ExprFloatLit {
		unreachablef("float_literal %%%d backed by %s", i.id, e.Kind)
	}
	v, _, err := big.ParseFloat(e.Text, 0, 53, big.ToNearestEven)
	if err != nil {
		unreachablef("malformed float literal %q: %v", e.Text, err)
	}
	return v
}

func (i *Inst) StringLiteralValue() string {
	e := i.literalExpr(KindStringLiteral)
	if e.Kind != ast.ExprStringLit {
		unreachablef("string_literal %%%d backed by %s", i.id, e.Kind)
	}
	return e.Text
}

// MetatypeType returns the metatype the instruction produces, which is the
// type of its expression.
func (i *Inst) MetatypeType() types.TypeID {
	e := i.literalExpr(KindMetatype)
	if e.Kind != ast.ExprMetatype {
		unreachablef("metatype %%%d backed by %s", i.id, e.Kind)
	}
	return e.Type
}

// InstanceType returns the type described by the metatype.
func (i *Inst) InstanceType() types.TypeID {
	tt, ok := i.fn.Types().Lookup(i.MetatypeType())
	if !ok || tt.Kind != types.KindMetatype {
		unreachablef("metatype %%%d has non-metatype type", i.id)
	}
	return tt.Elem
}
