// Package symbols resolves named and constant references to their declared
// types.
package symbols

// SymbolID identifies a symbol in the Symbols arena.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol.
const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }
