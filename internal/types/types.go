// Package types is the type-reference model consumed by the IR: every result
// type, element type and substitution target is an interned TypeID.
package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObjectPointer
	KindLValue
	KindTuple
	KindFn
	KindMetatype
	KindNominal
	KindArchetype
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObjectPointer:
		return "object_pointer"
	case KindLValue:
		return "lvalue"
	case KindTuple:
		return "tuple"
	case KindFn:
		return "fn"
	case KindMetatype:
		return "metatype"
	case KindNominal:
		return "nominal"
	case KindArchetype:
		return "archetype"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// LValueQual qualifies an address type.
type LValueQual uint8

const (
	// QualDefault is the qualifier set picked when none is specified.
	QualDefault LValueQual = 0
	// QualImplicit marks an lvalue produced by implicit materialization.
	QualImplicit LValueQual = 1 << iota
	// QualNonHeap marks storage that is known not to live on the heap.
	QualNonHeap
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // lvalue object type, metatype instance type
	Width   Width  // numeric primitives
	Qual    LValueQual
	Payload uint32 // slot in the kind-specific side table
}

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeLValue describes an address of elem.
func MakeLValue(elem TypeID, qual LValueQual) Type {
	return Type{Kind: KindLValue, Elem: elem, Qual: qual}
}

// MakeMetatype describes the metatype of instance.
func MakeMetatype(instance TypeID) Type {
	return Type{Kind: KindMetatype, Elem: instance}
}
