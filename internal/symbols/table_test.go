package symbols_test

import (
	"fmt"
	"testing"

	"sil/internal/symbols"
	"sil/internal/types"
)

func TestConstantType(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	table := symbols.NewTable(in)

	fnTy := in.RegisterFn([]types.TypeID{b.Int}, b.Int)
	inc := table.Declare(symbols.Symbol{Kind: symbols.SymbolFunction, Name: "inc", Type: fnTy})
	count := table.Declare(symbols.Symbol{Kind: symbols.SymbolGlobal, Name: "count", Type: b.Int})

	tests := []struct {
		name string
		c    symbols.Constant
		want types.TypeID
	}{
		{"function", symbols.Constant{Sym: inc, Kind: symbols.ConstantFunc}, fnTy},
		{"getter", symbols.Constant{Sym: count, Kind: symbols.ConstantGetter}, in.RegisterFn(nil, b.Int)},
		{"setter", symbols.Constant{Sym: count, Kind: symbols.ConstantSetter}, in.RegisterFn([]types.TypeID{b.Int}, b.EmptyTuple)},
		{"global address", symbols.Constant{Sym: count, Kind: symbols.ConstantGlobalAddress}, in.LValue(b.Int, types.QualDefault)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.ConstantType(tt.c); got != tt.want {
				t.Errorf("ConstantType = %s, want %s", types.Label(in, got), types.Label(in, tt.want))
			}
		})
	}

	if id, ok := table.Lookup("count"); !ok || id != count {
		t.Errorf("Lookup(count) = %d, %v", id, ok)
	}
	if _, ok := table.Lookup("missing"); ok {
		t.Errorf("unexpected symbol for missing name")
	}
}

func TestConstantTypeUnknownSymbolPanics(t *testing.T) {
	table := symbols.NewTable(types.NewInterner())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown symbol")
		}
	}()
	table.ConstantType(symbols.Constant{Sym: 7})
}

func TestSymbolPointersSurviveGrowth(t *testing.T) {
	in := types.NewInterner()
	table := symbols.NewTable(in)
	first := table.Declare(symbols.Symbol{Kind: symbols.SymbolGlobal, Name: "g0", Type: in.Builtins().Int})
	ptr := table.Symbols.Get(first)
	for i := range 300 {
		table.Declare(symbols.Symbol{Kind: symbols.SymbolGlobal, Name: fmt.Sprintf("g%d", i+1), Type: in.Builtins().Int})
	}
	if table.Symbols.Get(first) != ptr || ptr.Name != "g0" {
		t.Fatalf("symbol %d moved or changed: %+v", first, ptr)
	}
	if table.Symbols.Len() != 301 {
		t.Fatalf("Len = %d, want 301", table.Symbols.Len())
	}
	if table.Symbols.Get(symbols.NoSymbolID) != nil || table.Symbols.Get(symbols.SymbolID(5000)) != nil {
		t.Fatalf("sentinel or unknown ID resolved to a symbol")
	}
}
