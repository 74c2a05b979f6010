package sil

import (
	"fmt"

	"fortio.org/safecast"

	"sil/internal/ast"
	"sil/internal/source"
	"sil/internal/symbols"
	"sil/internal/types"
)

// Module owns functions and the collaborators they share.
type Module struct {
	Types   *types.Interner
	Symbols *symbols.Table
	Nodes   *ast.Builder
	Files   *source.FileSet
	Arena   ArenaConfig

	funcs  []*Func
	byName map[string]FuncID
}

// Options configures NewModule. Nil collaborators are created empty.
type Options struct {
	Types   *types.Interner
	Symbols *symbols.Table
	Nodes   *ast.Builder
	Files   *source.FileSet
	Arena   ArenaConfig
}

func NewModule(opts Options) *Module {
	if opts.Types == nil {
		opts.Types = types.NewInterner()
	}
	if opts.Symbols == nil {
		opts.Symbols = symbols.NewTable(opts.Types)
	}
	if opts.Nodes == nil {
		opts.Nodes = ast.NewBuilder(ast.Hints{})
	}
	if opts.Files == nil {
		opts.Files = source.NewFileSet()
	}
	if opts.Arena == (ArenaConfig{}) {
		opts.Arena = DefaultArenaConfig
	}
	return &Module{
		Types:   opts.Types,
		Symbols: opts.Symbols,
		Nodes:   opts.Nodes,
		Files:   opts.Files,
		Arena:   opts.Arena,
		byName:  make(map[string]FuncID),
	}
}

// NewFunc creates an empty function. Names must be unique within the module.
func (m *Module) NewFunc(name string, ty types.TypeID) *Func {
	if _, dup := m.byName[name]; dup {
		panic(fmt.Sprintf("sil: duplicate function %q", name))
	}
	n, err := safecast.Conv[int32](len(m.funcs))
	if err != nil {
		panic(fmt.Errorf("sil: function table overflow: %w", err))
	}
	f := newFunc(m, FuncID(n), name, ty, m.Arena)
	m.funcs = append(m.funcs, f)
	m.byName[name] = f.ID
	return f
}

// Func returns the function with the given ID, or nil.
func (m *Module) Func(id FuncID) *Func {
	if id < 0 || int(id) >= len(m.funcs) {
		return nil
	}
	return m.funcs[id]
}

// Lookup finds a function by name.
func (m *Module) Lookup(name string) (*Func, bool) {
	id, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.funcs[id], true
}

// Funcs returns the functions in creation order.
func (m *Module) Funcs() []*Func {
	out := make([]*Func, len(m.funcs))
	copy(out, m.funcs)
	return out
}

// ConstantType resolves the type a constant reference produces.
func (m *Module) ConstantType(c symbols.Constant) types.TypeID {
	return m.Symbols.ConstantType(c)
}
