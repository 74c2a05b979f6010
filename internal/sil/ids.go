// Package sil is the instruction-node layer of the SIL intermediate
// representation: instructions, the basic blocks that own them and the
// successor edges between blocks.
//
// A Func owns every node it creates. Instructions and blocks are allocated
// from per-function pools and never move, so an InstID or BlockID (and the
// pointer it resolves to) stays valid for the function's lifetime. Operand
// lists, result type lists and substitution lists are carved from per-function
// slabs.
//
// Misuse of the membership API (linking an instruction twice, unlinking one
// that is not linked, asking a non-terminator for successors) is an internal
// compiler bug and panics at the violation site.
package sil

import "fmt"

// FuncID indexes a function within its module.
type FuncID int32

// BlockID indexes a block within its function.
type BlockID int32

// InstID indexes an instruction within its function.
type InstID int32

// Sentinels for absent IDs.
const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoInstID  InstID  = -1
)

func (id BlockID) String() string {
	if id == NoBlockID {
		return "bb?"
	}
	return fmt.Sprintf("bb%d", id)
}

// Value names one result of one instruction. It does not keep the instruction
// alive; once the producer is erased the value dangles.
type Value struct {
	Def    InstID
	Result uint32
}

// NoValue is the absent operand.
var NoValue = Value{Def: NoInstID}

// IsValid reports whether v names a result.
func (v Value) IsValid() bool { return v.Def != NoInstID }

func (v Value) String() string {
	switch {
	case !v.IsValid():
		return "%?"
	case v.Result == 0:
		return fmt.Sprintf("%%%d", v.Def)
	default:
		return fmt.Sprintf("%%%d#%d", v.Def, v.Result)
	}
}
