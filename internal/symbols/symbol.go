package symbols

import (
	"sil/internal/ast"
	"sil/internal/types"
)

// SymbolKind classifies a declared entity.
type SymbolKind uint8

const (
	SymbolFunction SymbolKind = iota + 1
	SymbolGlobal
	SymbolProperty
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolGlobal:
		return "global"
	case SymbolProperty:
		return "property"
	default:
		return "invalid"
	}
}

// Symbol is a declared entity that IR constants may refer to.
type Symbol struct {
	Kind SymbolKind
	Name string
	Decl ast.DeclID
	Type types.TypeID
}
