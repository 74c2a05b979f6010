package sil_test

import (
	"fmt"
	"strings"
	"testing"

	"sil/internal/sil"
	"sil/internal/symbols"
	"sil/internal/types"
)

type fixture struct {
	m     *sil.Module
	f     *sil.Func
	ints  types.TypeID
	bools types.TypeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := sil.NewModule(sil.Options{})
	b := m.Types.Builtins()
	fnTy := m.Types.RegisterFn(nil, b.Int)
	return &fixture{
		m:     m,
		f:     m.NewFunc("main", fnTy),
		ints:  b.Int,
		bools: b.Bool,
	}
}

// fill appends n synthetic integer constants to blk.
func (fx *fixture) fill(blk *sil.Block, n int) []*sil.Inst {
	out := make([]*sil.Inst, n)
	for i := range out {
		out[i] = fx.f.NewIntegerValue(uint64(i), fx.ints) //nolint:gosec // small test values
		blk.PushBack(out[i])
	}
	return out
}

func (fx *fixture) callee(name string, params []types.TypeID, result types.TypeID) sil.Value {
	fnTy := fx.m.Types.RegisterFn(params, result)
	sym := fx.m.Symbols.Declare(symbols.Symbol{Kind: symbols.SymbolFunction, Name: name, Type: fnTy})
	ref := fx.f.NewConstantRef(sil.Synthetic(), symbols.Constant{Sym: sym, Kind: symbols.ConstantFunc})
	return ref.Result(0)
}

func ids(insts []*sil.Inst) []sil.InstID {
	out := make([]sil.InstID, len(insts))
	for i, in := range insts {
		out[i] = in.ID()
	}
	return out
}

func blockIDs(blk *sil.Block) []sil.InstID {
	return ids(blk.Insts())
}

func equalIDs(a, b []sil.InstID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, substr) {
			t.Fatalf("panic %q does not contain %q", msg, substr)
		}
	}()
	fn()
}
