package types

import (
	"fmt"
	"strings"
)

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// NominalKind distinguishes value and reference nominal types.
type NominalKind uint8

const (
	NominalStruct NominalKind = iota
	NominalClass
)

// NominalInfo describes a named struct or class.
type NominalInfo struct {
	Name   string
	Kind   NominalKind
	Fields []TypeID
}

// ArchetypeInfo describes a generic parameter placeholder.
type ArchetypeInfo struct {
	Name string
}

// RegisterTuple creates or finds a tuple type with the given elements.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	key := listKey(elems)
	if id, ok := in.tupleIndex[key]; ok {
		return id
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: cloneTypeArgs(elems)})
	id := in.internRaw(Type{Kind: KindTuple, Payload: slotOf(len(in.tuples)-1, "tuple info")})
	in.tupleIndex[key] = id
	return id
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	key := listKey(params) + "->" + fmt.Sprint(result)
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: cloneTypeArgs(params), Result: result})
	id := in.internRaw(Type{Kind: KindFn, Payload: slotOf(len(in.fns)-1, "fn info")})
	in.fnIndex[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// FnResult returns the result type of a function type and panics when id is
// not a function type.
func (in *Interner) FnResult(id TypeID) TypeID {
	info, ok := in.FnInfo(id)
	if !ok {
		panic(fmt.Errorf("types: %s is not a function type", Label(in, id)))
	}
	return info.Result
}

// RegisterNominal declares a new nominal type. Every call creates a distinct type.
func (in *Interner) RegisterNominal(name string, kind NominalKind, fields []TypeID) TypeID {
	in.nominals = append(in.nominals, NominalInfo{Name: name, Kind: kind, Fields: cloneTypeArgs(fields)})
	return in.internRaw(Type{Kind: KindNominal, Payload: slotOf(len(in.nominals)-1, "nominal info")})
}

// NominalInfo returns metadata for a nominal type.
func (in *Interner) NominalInfo(id TypeID) (*NominalInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNominal || int(tt.Payload) >= len(in.nominals) {
		return nil, false
	}
	return &in.nominals[tt.Payload], true
}

// NewArchetype declares a generic parameter placeholder.
func (in *Interner) NewArchetype(name string) TypeID {
	in.archetypes = append(in.archetypes, ArchetypeInfo{Name: name})
	return in.internRaw(Type{Kind: KindArchetype, Payload: slotOf(len(in.archetypes)-1, "archetype info")})
}

// ArchetypeInfo returns metadata for an archetype.
func (in *Interner) ArchetypeInfo(id TypeID) (*ArchetypeInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindArchetype || int(tt.Payload) >= len(in.archetypes) {
		return nil, false
	}
	return &in.archetypes[tt.Payload], true
}

func listKey(ids []TypeID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprint(&b, uint32(id))
	}
	return b.String()
}
