package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindBool:
		return "Bool"
	case KindInt:
		return fmt.Sprintf("Int%d", tt.Width)
	case KindFloat:
		return fmt.Sprintf("Float%d", tt.Width)
	case KindString:
		return "String"
	case KindObjectPointer:
		return "Builtin.ObjectPointer"
	case KindLValue:
		return "[byref] " + labelDepth(typesIn, tt.Elem, depth+1)
	case KindMetatype:
		return labelDepth(typesIn, tt.Elem, depth+1) + ".metatype"
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok {
			return "(?)"
		}
		return "(" + labelList(typesIn, info.Elems, depth) + ")"
	case KindFn:
		info, ok := typesIn.FnInfo(id)
		if !ok {
			return "fn(?)"
		}
		return "(" + labelList(typesIn, info.Params, depth) + ") -> " + labelDepth(typesIn, info.Result, depth+1)
	case KindNominal:
		if info, ok := typesIn.NominalInfo(id); ok {
			return info.Name
		}
	case KindArchetype:
		if info, ok := typesIn.ArchetypeInfo(id); ok {
			return "$" + info.Name
		}
	}
	return "?"
}

func labelList(typesIn *Interner, ids []TypeID, depth int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = labelDepth(typesIn, id, depth+1)
	}
	return strings.Join(parts, ", ")
}
