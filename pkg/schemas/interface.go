/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import "github.com/attrio/attrio/pkg/irows"

// FieldKind classifies a resolved field.
type FieldKind uint8

const (
	FieldKind_null FieldKind = iota
	FieldKind_Primitive
	FieldKind_Reference
)

// Field is one resolved attribute of a composite type.
type Field struct {
	ID    irows.ID
	Name  string
	Alias string
	Order int

	Required bool
	Multi    bool

	Kind FieldKind

	// DataKind of the target for primitive fields; for reference fields the
	// kind is DataKind_null
	DataKind DataKind

	// Target is the referenced composite type (reference fields only)
	Target irows.ID

	// Restriction is the end of the target's type-pointer chain; equals
	// Target unless the target is an alias of another composite type
	Restriction irows.ID
}

func (f Field) DisplayName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// TypeDef is a resolved type definition: the typed view over a schema row and
// its children.
type TypeDef struct {
	ID       irows.ID
	Name     string
	Terminal bool
	DataKind DataKind

	// Unique means instance values of the type must be unique
	Unique bool

	Fields []Field
}

// Ref is one resolved reference value.
type Ref struct {
	ID      irows.ID
	Display string
}

// FieldValue joins a resolved field with the stored state of one instance.
type FieldValue struct {
	Field Field

	// StoredValue is the raw stored text for primitive fields and the
	// referenced display value(s) for reference fields
	StoredValue string

	// Count of stored children for multi-valued fields
	Count int

	// Refs are resolved referenced rows, creation order (reference fields)
	Refs []Ref
}

// Instance is a data row joined against its type's resolved fields.
type Instance struct {
	ID     irows.ID
	Type   irows.ID
	Parent irows.ID
	Value  string
	Fields []FieldValue
}

// Named field access, scenario tests and renderers use it.
func (i *Instance) Field(name string) *FieldValue {
	for idx := range i.Fields {
		if i.Fields[idx].Field.Name == name || i.Fields[idx].Field.Alias == name {
			return &i.Fields[idx]
		}
	}
	return nil
}

// IResolver interprets schema rows. Implementations never mutate storage.
type IResolver interface {
	// ResolveType resolves a type definition with its fields.
	// Returns coreutils.ErrNotFoundError for an unknown id.
	ResolveType(typeID irows.ID) (TypeDef, error)

	// ResolveFields resolves the ordered field list of a composite type.
	// Empty for terminal types.
	ResolveFields(typeID irows.ID) ([]Field, error)

	// ResolveInstance joins stored attribute values against resolved fields.
	ResolveInstance(typeID, objectID irows.ID) (*Instance, error)
}
