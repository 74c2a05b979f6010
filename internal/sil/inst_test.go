package sil_test

import (
	"testing"

	"sil/internal/sil"
	"sil/internal/source"
	"sil/internal/types"
)

func TestResultTypes(t *testing.T) {
	fx := newFixture(t)
	tys := fx.m.Types
	ptr := tys.Builtins().ObjectPointer
	addr := tys.LValue(fx.ints, types.QualDefault)
	loc := sil.Synthetic()

	box := fx.f.NewAllocBox(loc, fx.ints)
	n := fx.f.NewIntegerValue(4, fx.ints)
	arr := fx.f.NewAllocArray(loc, fx.ints, n.Result(0))
	local := fx.f.NewAllocVar(loc, sil.AllocStack, fx.ints)
	load := fx.f.NewLoad(loc, local.Result(0))
	retain := fx.f.NewRetain(loc, box.Result(0))
	index := fx.f.NewIndexAddr(loc, arr.Result(1), 2)
	call := fx.f.NewApply(loc, fx.callee("f", []types.TypeID{fx.ints}, fx.bools), []sil.Value{n.Result(0)})
	store := fx.f.NewStore(loc, load.Result(0), local.Result(0))

	tests := []struct {
		name string
		in   *sil.Inst
		want []types.TypeID
	}{
		{name: "alloc_box", in: box, want: []types.TypeID{ptr, addr}},
		{name: "alloc_array", in: arr, want: []types.TypeID{ptr, addr}},
		{name: "alloc_var", in: local, want: []types.TypeID{addr}},
		{name: "load", in: load, want: []types.TypeID{fx.ints}},
		{name: "retain", in: retain, want: []types.TypeID{ptr}},
		{name: "index_addr", in: index, want: []types.TypeID{addr}},
		{name: "apply", in: call, want: []types.TypeID{fx.bools}},
		{name: "store", in: store},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ResultTypes()
			if len(got) != len(tt.want) {
				t.Fatalf("results = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("result %d = %s, want %s", i, types.Label(tys, got[i]), types.Label(tys, tt.want[i]))
				}
				if fx.f.TypeOf(tt.in.Result(i)) != tt.want[i] {
					t.Fatalf("TypeOf disagrees for result %d", i)
				}
			}
		})
	}

	mustPanic(t, "has no result", func() { store.Result(0) })
	mustPanic(t, "not one", func() { box.Type() })
	mustPanic(t, "not a function type", func() { fx.f.NewApply(loc, n.Result(0), nil) })
}

func TestVariableLengthOperandsSurviveGrowth(t *testing.T) {
	m := sil.NewModule(sil.Options{Arena: sil.ArenaConfig{ValueChunk: 4, TypeChunk: 4, SubstChunk: 2}})
	ints := m.Types.Builtins().Int
	f := m.NewFunc("grow", m.Types.RegisterFn(nil, ints))
	fx := &fixture{m: m, f: f, ints: ints, bools: m.Types.Builtins().Bool}

	a := f.NewIntegerValue(1, ints).Result(0)
	b := f.NewIntegerValue(2, ints).Result(0)
	c := f.NewIntegerValue(3, ints).Result(0)
	callee := fx.callee("sum3", []types.TypeID{ints, ints, ints}, ints)
	call := f.NewApply(sil.Synthetic(), callee, []sil.Value{a, b, c})
	tuple := f.NewTuple(sil.Synthetic(), []sil.Value{c, a}, m.Types.RegisterTuple([]types.TypeID{ints, ints}))
	first := m.Types.NewArchetype("T")
	spec := f.NewSpecialize(sil.Synthetic(), callee, []types.Substitution{{Archetype: first, Replacement: ints}}, call.Type())

	before := f.ArenaStats().ValueChunks
	for range 200 {
		f.NewApply(sil.Synthetic(), callee, []sil.Value{c, b, a})
		f.NewSpecialize(sil.Synthetic(), callee, []types.Substitution{{Archetype: first, Replacement: fx.bools}}, ints)
	}
	if f.ArenaStats().ValueChunks <= before {
		t.Fatalf("value slab did not grow")
	}

	data := call.Call()
	if data.NumArgs() != 3 {
		t.Fatalf("args = %d, want 3", data.NumArgs())
	}
	for i, want := range []sil.Value{a, b, c} {
		if data.Arg(i) != want {
			t.Fatalf("arg %d = %s, want %s", i, data.Arg(i), want)
		}
	}
	if data.Callee != callee {
		t.Fatalf("callee = %s", data.Callee)
	}
	if ops := call.Operands(); len(ops) != 4 || ops[0] != callee || ops[3] != c {
		t.Fatalf("operands = %v", ops)
	}
	if tu := tuple.Tuple(); tu.NumElements() != 2 || tu.Element(0) != c || tu.Element(1) != a {
		t.Fatalf("tuple elements = %v", tu.Elements())
	}
	if s := spec.Specialize(); s.NumSubstitutions() != 1 || s.Substitution(0).Replacement != ints {
		t.Fatalf("substitutions = %v", s.Substitutions())
	}
}

func TestCallerSliceIsCopied(t *testing.T) {
	fx := newFixture(t)
	x := fx.f.NewIntegerValue(1, fx.ints).Result(0)
	y := fx.f.NewIntegerValue(2, fx.ints).Result(0)
	args := []sil.Value{x, y}
	tu := fx.f.NewTuple(sil.Synthetic(), args, fx.m.Types.RegisterTuple([]types.TypeID{fx.ints, fx.ints}))
	args[0] = y
	if tu.Tuple().Element(0) != x {
		t.Fatalf("tuple aliases the caller's slice")
	}
}

func TestFamilyAccessorsCheckKind(t *testing.T) {
	fx := newFixture(t)
	in := fx.f.NewIntegerValue(1, fx.ints)
	mustPanic(t, "not apply or closure", func() { in.Call() })
	mustPanic(t, "not a single-operand", func() { in.Unary() })
	mustPanic(t, "not a projection", func() { in.Extract() })
	mustPanic(t, "not return", func() { in.Return() })

	if !fx.f.NewCoerce(sil.Synthetic(), in.Result(0), fx.bools).Kind().IsConversion() {
		t.Fatalf("coerce is not classified as a conversion")
	}
	if !sil.KindRefElementAddr.IsProjection() || sil.KindTuple.IsProjection() {
		t.Fatalf("projection classification is off")
	}
	mustPanic(t, "needs a location", func() { fx.f.NewZeroValue(sil.Location{}, fx.ints) })
}

func TestLiteralsReadBackFromExpressions(t *testing.T) {
	fx := newFixture(t)
	nodes := fx.m.Nodes
	fid := fx.m.Files.AddVirtual("lit.swift", []byte("let x = 0x2A\n'é' 1.5 \"hi\"\n"))
	sp := func(start, end uint32) source.Span { return source.Span{File: fid, Start: start, End: end} }
	b := fx.m.Types.Builtins()

	intLit := fx.f.NewIntegerLiteral(nodes.NewIntegerLit(sp(8, 12), "0x2A", b.Int))
	charLit := fx.f.NewIntegerLiteral(nodes.NewCharacterLit(sp(13, 17), 'é', b.Int32))
	floatLit := fx.f.NewFloatLiteral(nodes.NewFloatLit(sp(18, 21), "1.5", b.Float))
	strLit := fx.f.NewStringLiteral(nodes.NewStringLit(sp(22, 26), "hi", b.String))
	meta := fx.f.NewMetatype(nodes.NewMetatype(sp(0, 3), fx.m.Types.Metatype(b.Int)))

	if got := intLit.IntegerLiteralValue().Int64(); got != 42 {
		t.Fatalf("integer literal = %d, want 42", got)
	}
	if got := charLit.IntegerLiteralValue().Uint64(); got != 0xE9 {
		t.Fatalf("character literal = %#x, want 0xe9", got)
	}
	if charLit.Type() != b.Int32 {
		t.Fatalf("character literal type = %d", charLit.Type())
	}
	if got, _ := floatLit.FloatLiteralValue().Float64(); got != 1.5 {
		t.Fatalf("float literal = %v", got)
	}
	if got := strLit.StringLiteralValue(); got != "hi" {
		t.Fatalf("string literal = %q", got)
	}
	if got := meta.MetatypeType(); got != meta.Type() {
		t.Fatalf("metatype = %s, want the expression type %s",
			types.Label(fx.m.Types, got), types.Label(fx.m.Types, meta.Type()))
	}
	if got := meta.InstanceType(); got != b.Int {
		t.Fatalf("metatype instance = %s", types.Label(fx.m.Types, got))
	}

	mustPanic(t, "want", func() { fx.f.NewFloatLiteral(nodes.NewIntegerLit(sp(0, 1), "1", b.Int)) })
	mustPanic(t, "unreachable", func() { intLit.FloatLiteralValue() })

	if loc := intLit.Loc(); loc.Kind() != sil.LocExpr {
		t.Fatalf("literal located at %s", loc)
	}
	span, ok := intLit.Loc().Span(nodes)
	if !ok || fx.m.Files.Position(span) != "lit.swift:1:9" {
		t.Fatalf("literal position = %q", fx.m.Files.Position(span))
	}
	if iv := fx.f.NewIntegerValue(5, b.Int); !iv.Loc().IsSynthetic() {
		t.Fatalf("integer_value is not synthetic")
	}
}

func TestAllocVarDecl(t *testing.T) {
	fx := newFixture(t)
	decl := fx.m.Nodes.NewVar(source.Span{}, "count", fx.ints)
	named := fx.f.NewAllocVarDecl(decl, sil.AllocStack)
	temp := fx.f.NewAllocVar(sil.Synthetic(), sil.AllocPseudo, fx.bools)

	if got, ok := named.Decl(); !ok || got != decl {
		t.Fatalf("Decl() = %d, %v", got, ok)
	}
	if named.ElementType() != fx.ints || named.Alloc().Kind != sil.AllocStack {
		t.Fatalf("alloc payload = %+v", *named.Alloc())
	}
	if _, ok := temp.Decl(); ok {
		t.Fatalf("temporary reports a declaration")
	}

	fn := fx.m.Nodes.NewFunc(source.Span{}, "helper", fx.f.Type)
	mustPanic(t, "non-variable", func() { fx.f.NewAllocVarDecl(fn, sil.AllocStack) })
	if named.Loc().Kind() != sil.LocDecl {
		t.Fatalf("alloc_var located at %s", named.Loc())
	}
}
