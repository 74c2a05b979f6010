package symbols

import "sil/internal/arena"

// Symbols stores declared symbols. Pointers returned by Get stay valid as
// more symbols are declared.
type Symbols struct {
	pool *arena.Pool[Symbol]
}

// NewSymbols creates an empty symbol arena. Index 0 is the NoSymbolID
// sentinel.
func NewSymbols() *Symbols {
	s := &Symbols{pool: arena.NewPool[Symbol](nil)}
	s.pool.Alloc()
	return s
}

// New copies sym into the arena and returns its ID.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols: nil symbol")
	}
	node, idx := s.pool.Alloc()
	*node = *sym
	return SymbolID(idx)
}

// Get returns the symbol for id, or nil for the sentinel and unknown IDs.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() {
		return nil
	}
	return s.pool.At(uint32(id))
}

// Len reports the number of declared symbols.
func (s *Symbols) Len() int { return s.pool.Allocated() - 1 }
