/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import (
	"context"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

type resolver struct {
	ctx     context.Context
	storage irows.IRowStorage
}

func (r *resolver) ResolveType(typeID irows.ID) (TypeDef, error) {
	row, ok, err := r.storage.Get(typeID)
	if err != nil {
		return TypeDef{}, coreutils.ErrStorageFailure("resolve type", typeID, err)
	}
	if !ok {
		return TypeDef{}, ErrTypeNotFound(typeID)
	}
	def := TypeDef{
		ID:       typeID,
		Name:     row.Value,
		Terminal: row.IsTerminal(),
		DataKind: KindOf(typeID),
		Unique:   row.Parent.IsNull() && row.Order == UniqueFlag,
	}
	if !def.Terminal {
		if def.Fields, err = r.resolveFields(row); err != nil {
			return TypeDef{}, err
		}
	}
	return def, nil
}

func (r *resolver) ResolveFields(typeID irows.ID) ([]Field, error) {
	row, ok, err := r.storage.Get(typeID)
	if err != nil {
		return nil, coreutils.ErrStorageFailure("resolve fields", typeID, err)
	}
	if !ok {
		return nil, ErrTypeNotFound(typeID)
	}
	if row.IsTerminal() {
		// terminal types have no fields
		return []Field{}, nil
	}
	return r.resolveFields(row)
}

func (r *resolver) resolveFields(typeRow irows.Row) (fields []Field, err error) {
	fields = []Field{}
	err = r.storage.ReadChildren(r.ctx, typeRow.ID, irows.NullID, func(child irows.Row) error {
		if child.Type.IsNull() {
			// not a field definition
			return nil
		}
		mods, name := ParseModifiers(child.Value)
		f := Field{
			ID:       child.ID,
			Name:     name,
			Alias:    mods.Alias,
			Order:    child.Order,
			Required: mods.Required,
			Multi:    mods.Multi,
		}
		if kind := KindOf(child.Type); kind != DataKind_null {
			f.Kind = FieldKind_Primitive
			f.DataKind = kind
		} else {
			f.Kind = FieldKind_Reference
			f.Target = child.Type
			f.Restriction = r.resolveRestriction(child.Type)
		}
		fields = append(fields, f)
		return nil
	})
	if err != nil {
		return nil, coreutils.ErrStorageFailure("resolve fields", typeRow.ID, err)
	}
	return fields, nil
}

// resolveRestriction follows the target's type-pointer chain to the ultimate
// restricting type. Self-referential rows short-circuit; the walk is bounded
// because nothing forbids a pointer cycle in stored data.
func (r *resolver) resolveRestriction(target irows.ID) irows.ID {
	restriction := target
	for depth := 0; depth < maxRefDepth; depth++ {
		row, ok, err := r.storage.Get(restriction)
		if err != nil || !ok {
			return restriction
		}
		if row.IsTerminal() || row.Type.IsNull() || row.Type == restriction {
			return restriction
		}
		restriction = row.Type
	}
	return restriction
}

func (r *resolver) ResolveInstance(typeID, objectID irows.ID) (*Instance, error) {
	fields, err := r.ResolveFields(typeID)
	if err != nil {
		return nil, err
	}

	obj, ok, err := r.storage.Get(objectID)
	if err != nil {
		return nil, coreutils.ErrStorageFailure("resolve instance", objectID, err)
	}
	if !ok {
		return nil, ErrObjectNotFound(objectID)
	}
	if obj.Type != typeID {
		return nil, coreutils.ErrInvalidArgument("object «%v» is not an instance of type «%v»", objectID, typeID)
	}

	inst := &Instance{
		ID:     obj.ID,
		Type:   obj.Type,
		Parent: obj.Parent,
		Value:  obj.Value,
		Fields: make([]FieldValue, 0, len(fields)),
	}

	for _, f := range fields {
		fv := FieldValue{Field: f}

		// attribute rows in creation order: children scanned by Order would
		// reorder concatenated reference values, so collect and keep id order
		var attrs []irows.Row
		err = r.storage.ReadChildren(r.ctx, objectID, f.ID, func(attr irows.Row) error {
			attrs = append(attrs, attr)
			return nil
		})
		if err != nil {
			return nil, coreutils.ErrStorageFailure("resolve instance", objectID, err)
		}
		sortByID(attrs)

		fv.Count = len(attrs)
		switch f.Kind {
		case FieldKind_Reference:
			displays := make([]string, 0, len(attrs))
			for _, attr := range attrs {
				ref := r.resolveRef(attr.Value)
				if ref == nil {
					continue
				}
				fv.Refs = append(fv.Refs, *ref)
				displays = append(displays, ref.Display)
				if !f.Multi {
					break
				}
			}
			fv.StoredValue = strings.Join(displays, refDisplayDelim)
		default:
			if len(attrs) > 0 {
				fv.StoredValue = attrs[0].Value
			}
		}
		inst.Fields = append(inst.Fields, fv)
	}
	return inst, nil
}

// resolveRef loads the row a stored reference value points at.
func (r *resolver) resolveRef(value string) *Ref {
	id, ok := irows.ParseID(value)
	if !ok {
		return nil
	}
	row, ok, err := r.storage.Get(id)
	if err != nil || !ok {
		return nil
	}
	return &Ref{ID: id, Display: row.Value}
}

func sortByID(rows []irows.Row) {
	slices.SortFunc(rows, func(a, b irows.Row) bool { return a.ID < b.ID })
}
