package ast

import (
	"sil/internal/source"
	"sil/internal/types"
)

type DeclKind uint8

const (
	DeclVar DeclKind = iota + 1
	DeclFunc
	DeclParam
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclFunc:
		return "func"
	case DeclParam:
		return "param"
	default:
		return "invalid"
	}
}

// Decl is a named declaration with its checked type.
type Decl struct {
	Kind DeclKind
	Name string
	Span source.Span
	Type types.TypeID
}

type Decls struct {
	Arena *Arena[Decl]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{Arena: NewArena[Decl](capHint)}
}

func (d *Decls) New(decl Decl) DeclID {
	return DeclID(d.Arena.Allocate(decl))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}
