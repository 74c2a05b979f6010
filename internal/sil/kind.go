package sil

import "fmt"

// Kind is the closed set of instruction variants.
type Kind uint8

const (
	// KindInvalid is the zero Kind; no instruction carries it.
	KindInvalid Kind = iota

	// KindAllocVar allocates storage for a local variable.
	KindAllocVar
	// KindAllocBox allocates a reference-counted heap box.
	KindAllocBox
	// KindAllocArray allocates a heap array with a dynamic element count.
	KindAllocArray

	// KindApply calls a function value.
	KindApply
	// KindClosure partially applies a function value to captured arguments.
	KindClosure

	// KindConstantRef references a named constant such as a function or global.
	KindConstantRef
	// KindZeroValue produces the zero value of a type.
	KindZeroValue
	// KindIntegerLiteral materializes an integer or character literal expression.
	KindIntegerLiteral
	// KindFloatLiteral materializes a floating-point literal expression.
	KindFloatLiteral
	// KindStringLiteral materializes a string literal expression.
	KindStringLiteral
	// KindMetatype produces the metatype of a type expression.
	KindMetatype
	// KindIntegerValue produces an integer constant with no source expression.
	KindIntegerValue

	// KindLoad reads the value stored at an address.
	KindLoad
	// KindStore writes a value to an address.
	KindStore
	// KindCopyAddr copies the value at one address to another.
	KindCopyAddr
	// KindIndexAddr offsets an address by an element index.
	KindIndexAddr

	// KindSpecialize binds the generic parameters of a value.
	KindSpecialize

	// KindImplicitConvert is a conversion inserted by the type checker.
	KindImplicitConvert
	// KindCoerce is an explicit conversion between compatible types.
	KindCoerce
	// KindDowncast casts a class reference to a subclass.
	KindDowncast

	// KindTuple builds a tuple from its elements.
	KindTuple
	// KindExtract reads one field of a tuple or struct value.
	KindExtract
	// KindElementAddr projects the address of a field from an aggregate address.
	KindElementAddr
	// KindRefElementAddr projects the address of a field from a class reference.
	KindRefElementAddr

	// KindRetain increments a reference count.
	KindRetain
	// KindRelease decrements a reference count.
	KindRelease
	// KindDeallocVar releases storage made by alloc_var.
	KindDeallocVar
	// KindDestroyAddr destroys the value stored at an address.
	KindDestroyAddr

	// KindUnreachable marks a point control never reaches. The terminator
	// kinds stay contiguous and last.
	KindUnreachable
	// KindReturn returns a value from the function.
	KindReturn
	// KindBranch jumps unconditionally to one block.
	KindBranch
	// KindCondBranch jumps to one of two blocks on a boolean.
	KindCondBranch

	kindCount
)

var kindNames = [...]string{
	KindInvalid:         "invalid",
	KindAllocVar:        "alloc_var",
	KindAllocBox:        "alloc_box",
	KindAllocArray:      "alloc_array",
	KindApply:           "apply",
	KindClosure:         "closure",
	KindConstantRef:     "constant_ref",
	KindZeroValue:       "zero_value",
	KindIntegerLiteral:  "integer_literal",
	KindFloatLiteral:    "float_literal",
	KindStringLiteral:   "string_literal",
	KindMetatype:        "metatype",
	KindIntegerValue:    "integer_value",
	KindLoad:            "load",
	KindStore:           "store",
	KindCopyAddr:        "copy_addr",
	KindIndexAddr:       "index_addr",
	KindSpecialize:      "specialize",
	KindImplicitConvert: "implicit_convert",
	KindCoerce:          "coerce",
	KindDowncast:        "downcast",
	KindTuple:           "tuple",
	KindExtract:         "extract",
	KindElementAddr:     "element_addr",
	KindRefElementAddr:  "ref_element_addr",
	KindRetain:          "retain",
	KindRelease:         "release",
	KindDeallocVar:      "dealloc_var",
	KindDestroyAddr:     "destroy_addr",
	KindUnreachable:     "unreachable",
	KindReturn:          "return",
	KindBranch:          "br",
	KindCondBranch:      "condbranch",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsTerminator reports whether instructions of this kind end a block.
func (k Kind) IsTerminator() bool {
	return k >= KindUnreachable && k <= KindCondBranch
}

// IsAllocation covers the alloc_* variants.
func (k Kind) IsAllocation() bool {
	return k >= KindAllocVar && k <= KindAllocArray
}

// IsCall covers the variants with a callee and a trailing argument list.
func (k Kind) IsCall() bool {
	return k == KindApply || k == KindClosure
}

// IsLiteral covers the variants backed by a literal expression.
func (k Kind) IsLiteral() bool {
	return k >= KindIntegerLiteral && k <= KindMetatype
}

// IsConversion covers implicit_convert, coerce and downcast.
func (k Kind) IsConversion() bool {
	return k >= KindImplicitConvert && k <= KindDowncast
}

// IsProjection covers extract and the two address projections.
func (k Kind) IsProjection() bool {
	return k >= KindExtract && k <= KindRefElementAddr
}

// AllocKind says where an allocation lives.
type AllocKind uint8

const (
	// AllocHeap is storage owned by the heap.
	AllocHeap AllocKind = iota
	// AllocStack is storage in the function's frame.
	AllocStack
	// AllocPseudo is storage that is never materialized (e.g. a variable
	// promoted away later but still addressed during construction).
	AllocPseudo
)

func (k AllocKind) String() string {
	switch k {
	case AllocHeap:
		return "heap"
	case AllocStack:
		return "stack"
	case AllocPseudo:
		return "pseudo"
	default:
		return fmt.Sprintf("AllocKind(%d)", k)
	}
}
