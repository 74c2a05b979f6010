package types

// Substitution binds a generic archetype to a concrete replacement type.
// The IR treats it as an opaque record and copies it verbatim.
type Substitution struct {
	Archetype    TypeID
	Replacement  TypeID
	Conformances []string
}
