package ast

import (
	"sil/internal/source"
	"sil/internal/types"
)

type ExprKind uint8

const (
	ExprIntegerLit ExprKind = iota + 1
	ExprCharacterLit
	ExprFloatLit
	ExprStringLit
	ExprMetatype
	ExprDeclRef
	ExprCall
)

func (k ExprKind) String() string {
	switch k {
	case ExprIntegerLit:
		return "integer_literal"
	case ExprCharacterLit:
		return "character_literal"
	case ExprFloatLit:
		return "float_literal"
	case ExprStringLit:
		return "string_literal"
	case ExprMetatype:
		return "metatype"
	case ExprDeclRef:
		return "decl_ref"
	case ExprCall:
		return "call"
	default:
		return "invalid"
	}
}

// Expr is a type-checked expression. Text holds the literal spelling for
// numeric and string literals; Char holds a character literal's value.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Type types.TypeID
	Text string
	Char rune
	Decl DeclID
}

type Exprs struct {
	Arena *Arena[Expr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{Arena: NewArena[Expr](capHint)}
}

func (e *Exprs) New(expr Expr) ExprID {
	return ExprID(e.Arena.Allocate(expr))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}
