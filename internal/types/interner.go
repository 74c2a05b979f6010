package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid       TypeID
	Bool          TypeID
	Int           TypeID
	Int32         TypeID
	Float         TypeID
	String        TypeID
	ObjectPointer TypeID
	EmptyTuple    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types      []Type
	index      map[typeKey]TypeID
	builtins   Builtins
	tuples     []TupleInfo
	tupleIndex map[string]TypeID
	fns        []FnInfo
	fnIndex    map[string]TypeID
	nominals   []NominalInfo
	archetypes []ArchetypeInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[typeKey]TypeID, 64),
		tupleIndex: make(map[string]TypeID),
		fnIndex:    make(map[string]TypeID),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(MakeInt(Width64))
	in.builtins.Int32 = in.Intern(MakeInt(Width32))
	in.builtins.Float = in.Intern(MakeFloat(Width64))
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.ObjectPointer = in.Intern(Type{Kind: KindObjectPointer})
	in.builtins.EmptyTuple = in.RegisterTuple(nil)
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided scalar descriptor has a stable TypeID.
// Tuple, function, nominal and archetype types go through their Register
// helpers instead.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: interner overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports how many types are interned, including the invalid sentinel.
func (in *Interner) Len() int { return len(in.types) }

// LValue interns the address type of elem.
func (in *Interner) LValue(elem TypeID, qual LValueQual) TypeID {
	return in.Intern(MakeLValue(elem, qual))
}

// Metatype interns the metatype of instance.
func (in *Interner) Metatype(instance TypeID) TypeID {
	return in.Intern(MakeMetatype(instance))
}

// IsLValue reports whether id is an address type.
func (in *Interner) IsLValue(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindLValue
}

// LValueObject returns the object type of an address type and panics for any
// other kind.
func (in *Interner) LValueObject(id TypeID) TypeID {
	tt := in.MustLookup(id)
	if tt.Kind != KindLValue {
		panic(fmt.Errorf("types: %s is not an lvalue type", Label(in, id)))
	}
	return tt.Elem
}

// RValueType strips one level of lvalue, leaving other types untouched.
func (in *Interner) RValueType(id TypeID) TypeID {
	if tt, ok := in.Lookup(id); ok && tt.Kind == KindLValue {
		return tt.Elem
	}
	return id
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Width   Width
	Qual    LValueQual
	Payload uint32
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeID, len(args))
	copy(out, args)
	return out
}

func slotOf(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("types: %s overflow: %w", what, err))
	}
	return slot
}
