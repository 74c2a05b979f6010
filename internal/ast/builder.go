package ast

import (
	"sil/internal/source"
	"sil/internal/types"
)

type Hints struct{ Stmts, Exprs, Decls uint }

// Builder groups the node arenas of one compilation.
type Builder struct {
	Stmts *Stmts
	Exprs *Exprs
	Decls *Decls
}

func NewBuilder(hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 6
	}
	return &Builder{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Decls: NewDecls(hints.Decls),
	}
}

func (b *Builder) NewIntegerLit(sp source.Span, text string, ty types.TypeID) ExprID {
	return b.Exprs.New(Expr{Kind: ExprIntegerLit, Span: sp, Type: ty, Text: text})
}

func (b *Builder) NewCharacterLit(sp source.Span, ch rune, ty types.TypeID) ExprID {
	return b.Exprs.New(Expr{Kind: ExprCharacterLit, Span: sp, Type: ty, Char: ch})
}

func (b *Builder) NewFloatLit(sp source.Span, text string, ty types.TypeID) ExprID {
	return b.Exprs.New(Expr{Kind: ExprFloatLit, Span: sp, Type: ty, Text: text})
}

func (b *Builder) NewStringLit(sp source.Span, value string, ty types.TypeID) ExprID {
	return b.Exprs.New(Expr{Kind: ExprStringLit, Span: sp, Type: ty, Text: value})
}

// NewMetatype records a `T.self`-style expression whose type is the metatype.
func (b *Builder) NewMetatype(sp source.Span, metatype types.TypeID) ExprID {
	return b.Exprs.New(Expr{Kind: ExprMetatype, Span: sp, Type: metatype})
}

func (b *Builder) NewDeclRef(sp source.Span, decl DeclID, ty types.TypeID) ExprID {
	return b.Exprs.New(Expr{Kind: ExprDeclRef, Span: sp, Type: ty, Decl: decl})
}

func (b *Builder) NewVar(sp source.Span, name string, ty types.TypeID) DeclID {
	return b.Decls.New(Decl{Kind: DeclVar, Name: name, Span: sp, Type: ty})
}

func (b *Builder) NewFunc(sp source.Span, name string, ty types.TypeID) DeclID {
	return b.Decls.New(Decl{Kind: DeclFunc, Name: name, Span: sp, Type: ty})
}

func (b *Builder) NewStmt(kind StmtKind, sp source.Span) StmtID {
	return b.Stmts.New(kind, sp)
}
