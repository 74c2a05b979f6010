package sil

import (
	"fmt"
	"iter"
	"slices"

	"fortio.org/safecast"

	"sil/internal/arena"
	"sil/internal/symbols"
	"sil/internal/types"
)

// ArenaConfig sizes the per-function slabs.
type ArenaConfig struct {
	ValueChunk int
	TypeChunk  int
	SubstChunk int
}

// DefaultArenaConfig is used when a Module is created without one.
var DefaultArenaConfig = ArenaConfig{ValueChunk: 256, TypeChunk: 64, SubstChunk: 16}

// Func owns its blocks, its instructions and the arena their variable-length
// records come from. Removing an instruction from a block never frees its
// storage; everything is reclaimed together by Release.
type Func struct {
	ID   FuncID
	Name string
	Sym  symbols.SymbolID
	Type types.TypeID
	Loc  Location

	module *Module
	insts  *arena.Pool[Inst]
	blocks *arena.Pool[Block]
	values *arena.Slab[Value]
	tys    *arena.Slab[types.TypeID]
	substs *arena.Slab[types.Substitution]
	layout []BlockID
}

func newFunc(m *Module, id FuncID, name string, ty types.TypeID, cfg ArenaConfig) *Func {
	return &Func{
		ID:     id,
		Name:   name,
		Type:   ty,
		Loc:    Synthetic(),
		module: m,
		insts:  arena.NewPool(resetInst),
		blocks: arena.NewPool(resetBlock),
		values: arena.NewSlab[Value](cfg.ValueChunk),
		tys:    arena.NewSlab[types.TypeID](cfg.TypeChunk),
		substs: arena.NewSlab[types.Substitution](cfg.SubstChunk),
	}
}

func (f *Func) Module() *Module        { return f.module }
func (f *Func) Types() *types.Interner { return f.module.Types }

// Inst resolves an instruction ID; NoInstID and unknown IDs give nil.
func (f *Func) Inst(id InstID) *Inst {
	if id < 0 {
		return nil
	}
	return f.insts.At(uint32(id))
}

// Block resolves a block ID; NoBlockID and unknown IDs give nil.
func (f *Func) Block(id BlockID) *Block {
	if id < 0 {
		return nil
	}
	return f.blocks.At(uint32(id))
}

// NewBlock creates a block at the end of the layout.
func (f *Func) NewBlock() *Block {
	b := f.allocBlock()
	f.layout = append(f.layout, b.id)
	b.inFunc = true
	return b
}

// NewBlockAfter creates a block placed right after `after` in the layout.
func (f *Func) NewBlockAfter(after *Block) *Block {
	pos := f.layoutIndex(after)
	b := f.allocBlock()
	f.layout = slices.Insert(f.layout, pos+1, b.id)
	b.inFunc = true
	return b
}

func (f *Func) allocBlock() *Block {
	b, idx := f.blocks.Alloc()
	id, err := safecast.Conv[int32](idx)
	if err != nil {
		panic(fmt.Errorf("sil: block pool overflow: %w", err))
	}
	b.fn = f
	b.id = BlockID(id)
	return b
}

func (f *Func) layoutIndex(b *Block) int {
	if b.fn != f || !b.inFunc {
		panic(fmt.Sprintf("sil: %s is not in function %s", b, f.Name))
	}
	return slices.Index(f.layout, b.id)
}

// Entry returns the first block of the layout, or nil for an empty function.
func (f *Func) Entry() *Block {
	if len(f.layout) == 0 {
		return nil
	}
	return f.Block(f.layout[0])
}

// NumBlocks reports how many blocks are in the layout.
func (f *Func) NumBlocks() int { return len(f.layout) }

// Blocks iterates the layout in order.
func (f *Func) Blocks() iter.Seq[*Block] {
	return func(yield func(*Block) bool) {
		for _, id := range slices.Clone(f.layout) {
			if !yield(f.Block(id)) {
				return
			}
		}
	}
}

// RemoveBlock takes b out of the layout after unlinking its instructions.
// The instructions and the block stay allocated.
func (f *Func) RemoveBlock(b *Block) {
	pos := f.layoutIndex(b)
	for in := range b.All() {
		b.Remove(in)
	}
	f.layout = slices.Delete(f.layout, pos, pos+1)
	b.inFunc = false
}

// EraseBlock erases every instruction of b and drops it from the layout.
// Erasing a block that a terminator outside it still branches to panics.
func (f *Func) EraseBlock(b *Block) {
	pos := f.layoutIndex(b)
	for s := range b.Preds() {
		if owner := s.Owner(); owner.parent != b.id {
			panic(fmt.Sprintf("sil: erasing %s with incoming edges from %s %%%d", b, owner.kind, owner.id))
		}
	}
	for in := range b.All() {
		b.Erase(in)
	}
	f.layout = slices.Delete(f.layout, pos, pos+1)
	b.inFunc = false
	b.erased = true
}

// TypeOf returns the type of the value. A dangling value panics.
func (f *Func) TypeOf(v Value) types.TypeID {
	in := f.Inst(v.Def)
	if in == nil {
		panic(fmt.Sprintf("sil: value %s does not belong to %s", v, f.Name))
	}
	return in.ResultType(int(v.Result))
}

// ArenaStats summarizes the function's allocations.
type ArenaStats struct {
	Insts       int
	InstPages   int
	Blocks      int
	Values      int
	ValueChunks int
	TypeSlots   int
	Substs      int
}

func (f *Func) ArenaStats() ArenaStats {
	return ArenaStats{
		Insts:       f.insts.Allocated(),
		InstPages:   f.insts.Pages(),
		Blocks:      f.blocks.Allocated(),
		Values:      f.values.Allocated(),
		ValueChunks: f.values.Chunks(),
		TypeSlots:   f.tys.Allocated(),
		Substs:      f.substs.Allocated(),
	}
}

// Release tears the function down in bulk. Nothing obtained from f may be
// used afterwards.
func (f *Func) Release() {
	f.layout = nil
	f.insts.Release()
	f.blocks.Release()
	f.values.Release()
	f.tys.Release()
	f.substs.Release()
}

func (f *Func) newInst(kind Kind, loc Location, results ...types.TypeID) *Inst {
	if !loc.IsValid() {
		panic(fmt.Sprintf("sil: %s needs a location; use Synthetic() for IR-only code", kind))
	}
	in, idx := f.insts.Alloc()
	id, err := safecast.Conv[int32](idx)
	if err != nil {
		panic(fmt.Errorf("sil: instruction pool overflow: %w", err))
	}
	in.fn = f
	in.id = InstID(id)
	in.kind = kind
	in.loc = loc
	in.results = f.tys.Copy(results)
	return in
}
