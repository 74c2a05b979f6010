package symbols

import (
	"fmt"

	"sil/internal/types"
)

// ConstantKind selects which entry point of a symbol a constant names.
type ConstantKind uint8

const (
	// ConstantFunc names the symbol itself (a function body or a global's value).
	ConstantFunc ConstantKind = iota
	// ConstantGetter names a property or global getter.
	ConstantGetter
	// ConstantSetter names a property or global setter.
	ConstantSetter
	// ConstantGlobalAddress names the storage address of a global.
	ConstantGlobalAddress
)

func (k ConstantKind) String() string {
	switch k {
	case ConstantFunc:
		return "func"
	case ConstantGetter:
		return "getter"
	case ConstantSetter:
		return "setter"
	case ConstantGlobalAddress:
		return "global_addr"
	default:
		return fmt.Sprintf("ConstantKind(%d)", k)
	}
}

// Constant is a reference to one entry point of a declared symbol.
type Constant struct {
	Sym  SymbolID
	Kind ConstantKind
}

// Table owns the symbols of a module and resolves constants against the
// type interner.
type Table struct {
	Symbols *Symbols
	Types   *types.Interner
}

// NewTable creates an empty table.
func NewTable(typesIn *types.Interner) *Table {
	return &Table{Symbols: NewSymbols(), Types: typesIn}
}

// Declare adds a symbol and returns its ID.
func (t *Table) Declare(sym Symbol) SymbolID {
	return t.Symbols.New(&sym)
}

// Lookup finds the first symbol with the given name.
func (t *Table) Lookup(name string) (SymbolID, bool) {
	for i := 1; i <= t.Symbols.Len(); i++ {
		id := SymbolID(i) //nolint:gosec // bounded by arena length
		if t.Symbols.Get(id).Name == name {
			return id, true
		}
	}
	return NoSymbolID, false
}

// ConstantType returns the type of the value a constant reference produces.
// Referencing an unknown symbol is an internal error and panics.
func (t *Table) ConstantType(c Constant) types.TypeID {
	sym := t.Symbols.Get(c.Sym)
	if sym == nil {
		panic(fmt.Errorf("symbols: constant refers to unknown symbol %d", c.Sym))
	}
	switch c.Kind {
	case ConstantFunc:
		return sym.Type
	case ConstantGetter:
		return t.Types.RegisterFn(nil, sym.Type)
	case ConstantSetter:
		return t.Types.RegisterFn([]types.TypeID{sym.Type}, t.Types.Builtins().EmptyTuple)
	case ConstantGlobalAddress:
		return t.Types.LValue(sym.Type, types.QualDefault)
	default:
		panic(fmt.Errorf("symbols: unknown constant kind %v", c.Kind))
	}
}
