package sil

import (
	"fmt"

	"sil/internal/ast"
	"sil/internal/source"
)

// LocKind says what a Location points at. The zero value is not a location:
// instructions without a source analog must say so with Synthetic().
type LocKind uint8

const (
	LocInvalid LocKind = iota
	LocSynthetic
	LocExpr
	LocStmt
	LocDecl
)

func (k LocKind) String() string {
	switch k {
	case LocSynthetic:
		return "synthetic"
	case LocExpr:
		return "expr"
	case LocStmt:
		return "stmt"
	case LocDecl:
		return "decl"
	default:
		return "invalid"
	}
}

// Location ties an instruction to the construct it was generated from.
type Location struct {
	kind LocKind
	expr ast.ExprID
	stmt ast.StmtID
	decl ast.DeclID
}

// Synthetic is the location of IR-only instructions.
func Synthetic() Location { return Location{kind: LocSynthetic} }

func AtExpr(id ast.ExprID) Location {
	if !id.IsValid() {
		panic("sil: expression location needs a valid ExprID")
	}
	return Location{kind: LocExpr, expr: id}
}

func AtStmt(id ast.StmtID) Location {
	if !id.IsValid() {
		panic("sil: statement location needs a valid StmtID")
	}
	return Location{kind: LocStmt, stmt: id}
}

func AtDecl(id ast.DeclID) Location {
	if !id.IsValid() {
		panic("sil: declaration location needs a valid DeclID")
	}
	return Location{kind: LocDecl, decl: id}
}

func (l Location) Kind() LocKind     { return l.kind }
func (l Location) IsValid() bool     { return l.kind != LocInvalid }
func (l Location) IsSynthetic() bool { return l.kind == LocSynthetic }

func (l Location) Expr() (ast.ExprID, bool) { return l.expr, l.kind == LocExpr }
func (l Location) Stmt() (ast.StmtID, bool) { return l.stmt, l.kind == LocStmt }
func (l Location) Decl() (ast.DeclID, bool) { return l.decl, l.kind == LocDecl }

// Span resolves the source range of the located construct. Synthetic
// locations have none.
func (l Location) Span(nodes *ast.Builder) (source.Span, bool) {
	if nodes == nil {
		return source.Span{}, false
	}
	switch l.kind {
	case LocExpr:
		if e := nodes.Exprs.Get(l.expr); e != nil {
			return e.Span, true
		}
	case LocStmt:
		if s := nodes.Stmts.Get(l.stmt); s != nil {
			return s.Span, true
		}
	case LocDecl:
		if d := nodes.Decls.Get(l.decl); d != nil {
			return d.Span, true
		}
	}
	return source.Span{}, false
}

func (l Location) String() string {
	switch l.kind {
	case LocExpr:
		return fmt.Sprintf("expr#%d", l.expr)
	case LocStmt:
		return fmt.Sprintf("stmt#%d", l.stmt)
	case LocDecl:
		return fmt.Sprintf("decl#%d", l.decl)
	default:
		return l.kind.String()
	}
}
