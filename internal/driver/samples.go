package driver

import (
	"fmt"
	"slices"
	"strings"

	"sil/internal/ast"
	"sil/internal/sil"
	"sil/internal/source"
	"sil/internal/symbols"
	"sil/internal/types"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Arena sil.ArenaConfig
	// Funcs and Blocks size the "synthetic" sample.
	Funcs  int
	Blocks int
}

type sampleFunc func(*sampleEnv)

var samples = map[string]sampleFunc{
	"counter":   buildCounter,
	"diamond":   buildDiamond,
	"memory":    buildMemory,
	"selfloop":  buildSelfLoop,
	"synthetic": buildSynthetic,
}

// Samples lists the sample programs Build knows, sorted.
func Samples() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build constructs one module holding the named samples. An empty list
// builds every sample.
func Build(names []string, opts BuildOptions) (*sil.Module, error) {
	if len(names) == 0 {
		names = Samples()
	}
	for _, name := range names {
		if _, ok := samples[name]; !ok {
			return nil, fmt.Errorf("unknown sample %q (known: %s)", name, strings.Join(Samples(), ", "))
		}
	}
	if opts.Funcs <= 0 {
		opts.Funcs = 8
	}
	if opts.Blocks <= 0 {
		opts.Blocks = 16
	}
	env := &sampleEnv{
		m:    sil.NewModule(sil.Options{Arena: opts.Arena}),
		opts: opts,
	}
	env.b = env.m.Types.Builtins()
	for _, name := range names {
		samples[name](env)
	}
	return env.m, nil
}

type sampleEnv struct {
	m    *sil.Module
	b    types.Builtins
	opts BuildOptions
}

type sampleFile struct {
	id   source.FileID
	text string
}

func (e *sampleEnv) file(name, text string) *sampleFile {
	return &sampleFile{id: e.m.Files.AddVirtual(name, []byte(text)), text: text}
}

// spanIn locates sub inside the first occurrence of context.
func (sf *sampleFile) spanIn(context, sub string) source.Span {
	at := strings.Index(sf.text, context)
	off := strings.Index(context, sub)
	if at < 0 || off < 0 {
		panic(fmt.Sprintf("driver: %q not found in sample source", context))
	}
	start := uint32(at + off) //nolint:gosec // sample sources are tiny
	return source.Span{File: sf.id, Start: start, End: start + uint32(len(sub))} //nolint:gosec // same
}

func (sf *sampleFile) span(text string) source.Span { return sf.spanIn(text, text) }

// callee materializes a reference to a declared function, declaring it on
// first use.
func (e *sampleEnv) callee(bld *sil.Builder, name string, params []types.TypeID, result types.TypeID) sil.Value {
	sym, ok := e.m.Symbols.Lookup(name)
	if !ok {
		sym = e.m.Symbols.Declare(symbols.Symbol{
			Kind: symbols.SymbolFunction,
			Name: name,
			Type: e.m.Types.RegisterFn(params, result),
		})
	}
	ref := bld.CreateConstantRef(sil.Synthetic(), symbols.Constant{Sym: sym, Kind: symbols.ConstantFunc})
	return ref.Result(0)
}

// counter: a while loop over a stack variable.
func buildCounter(e *sampleEnv) {
	src := e.file("counter.swift", "var n = 0\nwhile n < 10 {\n    n = n + 1\n}\nreturn n\n")
	nodes := e.m.Nodes
	decl := nodes.NewVar(src.spanIn("var n", "n"), "n", e.b.Int)
	lit0 := nodes.NewIntegerLit(src.spanIn("= 0", "0"), "0", e.b.Int)
	lit10 := nodes.NewIntegerLit(src.span("10"), "10", e.b.Int)
	lit1 := nodes.NewIntegerLit(src.spanIn("+ 1", "1"), "1", e.b.Int)
	whileLoc := sil.AtStmt(nodes.NewStmt(ast.StmtWhile, src.span("while")))
	retLoc := sil.AtStmt(nodes.NewStmt(ast.StmtReturn, src.span("return n")))
	varLoc := sil.AtDecl(decl)

	f := e.m.NewFunc("counter", e.m.Types.RegisterFn(nil, e.b.Int))
	bld := sil.NewBuilder(f)
	entry, loop, body, exit := f.NewBlock(), f.NewBlock(), f.NewBlock(), f.NewBlock()

	bld.SetInsertPoint(entry)
	less := e.callee(bld, "less", []types.TypeID{e.b.Int, e.b.Int}, e.b.Bool)
	add := e.callee(bld, "add", []types.TypeID{e.b.Int, e.b.Int}, e.b.Int)
	slot := bld.CreateAllocVarDecl(decl, sil.AllocStack)
	zero := bld.CreateIntegerLiteral(lit0)
	bld.CreateStore(varLoc, zero.Result(0), slot.Result(0))
	bld.CreateBranch(whileLoc, loop)

	bld.SetInsertPoint(loop)
	cur := bld.CreateLoad(varLoc, slot.Result(0))
	limit := bld.CreateIntegerLiteral(lit10)
	cond := bld.CreateApply(whileLoc, less, cur.Result(0), limit.Result(0))
	bld.CreateCondBranch(whileLoc, cond.Result(0), body, exit)

	bld.SetInsertPoint(body)
	one := bld.CreateIntegerLiteral(lit1)
	next := bld.CreateApply(varLoc, add, cur.Result(0), one.Result(0))
	bld.CreateStore(varLoc, next.Result(0), slot.Result(0))
	bld.CreateBranch(whileLoc, loop)

	bld.SetInsertPoint(exit)
	res := bld.CreateLoad(retLoc, slot.Result(0))
	bld.CreateDeallocVar(retLoc, sil.AllocStack, slot.Result(0))
	bld.CreateReturn(retLoc, res.Result(0))
}

// diamond: a two-way branch joining again, with literal kinds on each side.
func buildDiamond(e *sampleEnv) {
	src := e.file("diamond.swift", "let s = flag ? \"yes\" : \"no\"\nlet x = 2.5\nlet c = 'λ'\nprint(Int.self)\n")
	nodes := e.m.Nodes
	yes := nodes.NewStringLit(src.span("\"yes\""), "yes", e.b.String)
	no := nodes.NewStringLit(src.span("\"no\""), "no", e.b.String)
	flt := nodes.NewFloatLit(src.span("2.5"), "2.5", e.b.Float)
	chr := nodes.NewCharacterLit(src.span("'λ'"), 'λ', e.b.Int32)
	meta := nodes.NewMetatype(src.span("Int.self"), e.m.Types.Metatype(e.b.Int))
	ifLoc := sil.AtStmt(nodes.NewStmt(ast.StmtIf, src.span("flag ?")))

	f := e.m.NewFunc("diamond", e.m.Types.RegisterFn(nil, e.b.EmptyTuple))
	bld := sil.NewBuilder(f)
	entry, left, right, join := f.NewBlock(), f.NewBlock(), f.NewBlock(), f.NewBlock()

	bld.SetInsertPoint(entry)
	flag := bld.CreateIntegerValue(1, e.b.Bool)
	bld.CreateCondBranch(ifLoc, flag.Result(0), left, right)

	bld.SetInsertPoint(left)
	bld.CreateStringLiteral(yes)
	bld.CreateBranch(ifLoc, join)

	bld.SetInsertPoint(right)
	bld.CreateStringLiteral(no)
	bld.CreateBranch(ifLoc, join)

	bld.SetInsertPoint(join)
	x := bld.CreateFloatLiteral(flt)
	bld.CreateCoerce(sil.AtExpr(flt), x.Result(0), e.b.Int)
	c := bld.CreateIntegerLiteral(chr)
	bld.CreateImplicitConvert(sil.AtExpr(chr), c.Result(0), e.b.Int)
	mt := bld.CreateMetatype(meta)
	bld.CreateDowncast(sil.AtExpr(meta), mt.Result(0), e.m.Types.Metatype(e.b.Int))
	unit := bld.CreateTuple(sil.Synthetic(), e.b.EmptyTuple)
	bld.CreateReturn(sil.Synthetic(), unit.Result(0))
}

// memory: boxes, arrays, aggregates, globals and a specialized generic call.
func buildMemory(e *sampleEnv) {
	tys := e.m.Types
	loc := sil.Synthetic()
	addrOf := func(t types.TypeID) types.TypeID { return tys.LValue(t, types.QualDefault) }
	pairTy := tys.RegisterTuple([]types.TypeID{e.b.Int, e.b.Int})
	point := tys.RegisterNominal("Point", types.NominalStruct, []types.TypeID{e.b.Int, e.b.Int})
	node := tys.RegisterNominal("Node", types.NominalClass, []types.TypeID{e.b.Int})
	param := tys.NewArchetype("T")
	limit := e.m.Symbols.Declare(symbols.Symbol{Kind: symbols.SymbolGlobal, Name: "limit", Type: e.b.Int})

	f := e.m.NewFunc("memory", tys.RegisterFn(nil, e.b.Int))
	bld := sil.NewBuilder(f)
	bld.SetInsertPoint(f.NewBlock())

	identity := e.callee(bld, "identity", []types.TypeID{param}, param)
	box := bld.CreateAllocBox(loc, e.b.Int)
	zero := bld.CreateZeroValue(loc, e.b.Int)
	bld.CreateStore(loc, zero.Result(0), box.Result(1))

	n := bld.CreateIntegerValue(4, e.b.Int)
	arr := bld.CreateAllocArray(loc, e.b.Int, n.Result(0))
	elt := bld.CreateIndexAddr(loc, arr.Result(1), 2)
	bld.CreateCopyAddr(loc, box.Result(1), elt.Result(0), false, true)

	pair := bld.CreateTuple(loc, pairTy, zero.Result(0), n.Result(0))
	first := bld.CreateExtract(loc, pair.Result(0), 0, e.b.Int)
	pt := bld.CreateAllocVar(loc, sil.AllocStack, point)
	y := bld.CreateElementAddr(loc, pt.Result(0), 1, addrOf(e.b.Int))
	bld.CreateStore(loc, first.Result(0), y.Result(0))

	obj := bld.CreateZeroValue(loc, node)
	val := bld.CreateRefElementAddr(loc, obj.Result(0), 0, addrOf(e.b.Int))
	bld.CreateDestroyAddr(loc, val.Result(0))

	gaddr := bld.CreateConstantRef(loc, symbols.Constant{Sym: limit, Kind: symbols.ConstantGlobalAddress})
	bld.CreateLoad(loc, gaddr.Result(0))
	getter := bld.CreateConstantRef(loc, symbols.Constant{Sym: limit, Kind: symbols.ConstantGetter})
	bld.CreateApply(loc, getter.Result(0))

	subs := []types.Substitution{{Archetype: param, Replacement: e.b.Int, Conformances: []string{"Copyable"}}}
	spec := bld.CreateSpecialize(loc, identity, subs, tys.RegisterFn([]types.TypeID{e.b.Int}, e.b.Int))
	res := bld.CreateApply(loc, spec.Result(0), first.Result(0))
	bld.CreateClosure(loc, spec.Result(0), n.Result(0))

	bld.CreateRetain(loc, box.Result(0))
	bld.CreateRelease(loc, box.Result(0))
	bld.CreateRelease(loc, arr.Result(0))
	bld.CreateDeallocVar(loc, sil.AllocStack, pt.Result(0))
	bld.CreateReturn(loc, res.Result(0))
}

// selfloop: both edges of a conditional branch go to one block, which then
// loops on itself.
func buildSelfLoop(e *sampleEnv) {
	f := e.m.NewFunc("selfloop", e.m.Types.RegisterFn(nil, e.b.EmptyTuple))
	bld := sil.NewBuilder(f)
	a, b := f.NewBlock(), f.NewBlock()

	bld.SetInsertPoint(a)
	c := bld.CreateIntegerValue(0, e.b.Bool)
	bld.CreateCondBranch(sil.Synthetic(), c.Result(0), b, b)

	bld.SetInsertPoint(b)
	bld.CreateBranch(sil.Synthetic(), b)
}

// synthetic: generated ladders of conditional branches, sized by BuildOptions.
func buildSynthetic(e *sampleEnv) {
	for i := range e.opts.Funcs {
		f := e.m.NewFunc(fmt.Sprintf("synthetic_%03d", i), e.m.Types.RegisterFn(nil, e.b.Int))
		bld := sil.NewBuilder(f)
		blocks := make([]*sil.Block, e.opts.Blocks)
		for k := range blocks {
			blocks[k] = f.NewBlock()
		}
		last := len(blocks) - 1
		for k, blk := range blocks {
			bld.SetInsertPoint(blk)
			v := bld.CreateIntegerValue(uint64(i*len(blocks)+k), e.b.Int) //nolint:gosec // bounded by options
			if k == last {
				bld.CreateReturn(sil.Synthetic(), v.Result(0))
				continue
			}
			cond := bld.CreateIntegerValue(uint64(k%2), e.b.Bool) //nolint:gosec // 0 or 1
			bld.CreateCondBranch(sil.Synthetic(), cond.Result(0), blocks[k+1], blocks[last])
		}
	}
}
