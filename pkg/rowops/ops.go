/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package rowops

import (
	"context"
	"errors"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/schemas"
)

// Ops bundles the structural and instance operations. Schema rows and data
// rows share the same delete/move/reorder primitives, so both kinds of
// operation live here.
type Ops struct {
	ctx     context.Context
	storage irows.IRowStorage
}

func Provide(ctx context.Context, storage irows.IRowStorage) *Ops {
	return &Ops{ctx: ctx, storage: storage}
}

// AddType stores a new root-level composite type.
func (o *Ops) AddType(name string, unique bool) (irows.ID, error) {
	if name == "" {
		return irows.NullID, coreutils.ErrInvalidArgument("type name is empty")
	}
	order := irows.DefaultOrder
	if unique {
		order = schemas.UniqueFlag
	}
	return o.storage.Insert(irows.NullID, order, irows.NullID, name)
}

// AddField appends a field definition to a composite type. target names a
// terminal type for primitive fields and a composite type for references.
func (o *Ops) AddField(typeID, target irows.ID, name string, mods schemas.FieldModifiers) (irows.ID, error) {
	typeRow, ok, err := o.storage.Get(typeID)
	if err != nil {
		return irows.NullID, coreutils.ErrStorageFailure("add field", typeID, err)
	}
	if !ok {
		return irows.NullID, schemas.ErrTypeNotFound(typeID)
	}
	if typeRow.IsTerminal() {
		return irows.NullID, coreutils.ErrInvalidArgument("terminal type «%v» cannot have fields", typeID)
	}
	if target.IsNull() {
		return irows.NullID, coreutils.ErrInvalidArgument("field «%s» has no target type", name)
	}

	order, err := o.nextOrder(typeID)
	if err != nil {
		return irows.NullID, err
	}
	return o.storage.Insert(typeID, order, target, mods.Encode(name))
}

// SetModifiers rewrites a field definition's modifiers, keeping its name.
func (o *Ops) SetModifiers(fieldID irows.ID, mods schemas.FieldModifiers) error {
	row, ok, err := o.storage.Get(fieldID)
	if err != nil {
		return coreutils.ErrStorageFailure("set modifiers", fieldID, err)
	}
	if !ok {
		return coreutils.ErrNotFound("field «%v»", fieldID)
	}
	_, name := schemas.ParseModifiers(row.Value)
	return o.storage.UpdateValue(fieldID, mods.Encode(name))
}

// AddInstance stores a new instance of a composite type. Unique types reject
// duplicate instance values.
func (o *Ops) AddInstance(parent, typeID irows.ID, value string) (irows.ID, error) {
	typeRow, ok, err := o.storage.Get(typeID)
	if err != nil {
		return irows.NullID, coreutils.ErrStorageFailure("add instance", typeID, err)
	}
	if !ok {
		return irows.NullID, schemas.ErrTypeNotFound(typeID)
	}
	if typeRow.IsTerminal() {
		return irows.NullID, coreutils.ErrInvalidArgument("terminal type «%v» cannot have instances", typeID)
	}

	if typeRow.Parent.IsNull() && typeRow.Order == schemas.UniqueFlag {
		dup := false
		err := o.storage.ReadByType(o.ctx, typeID, func(row irows.Row) error {
			if row.Value == value {
				dup = true
				return errStop
			}
			return nil
		})
		if err != nil && err != errStop {
			return irows.NullID, coreutils.ErrStorageFailure("add instance", typeID, err)
		}
		if dup {
			return irows.NullID, coreutils.ErrInvalidArgument("type «%v» is unique, value %q already stored", typeID, value)
		}
	}

	order := irows.DefaultOrder
	if !parent.IsNull() {
		if order, err = o.nextOrder(parent); err != nil {
			return irows.NullID, err
		}
	}
	return o.storage.Insert(parent, order, typeID, value)
}

// SetAttribute writes the single value of a field: updates the stored
// attribute row or creates the first one.
func (o *Ops) SetAttribute(objectID, fieldID irows.ID, value string) error {
	var existing *irows.Row
	err := o.storage.ReadChildren(o.ctx, objectID, fieldID, func(row irows.Row) error {
		r := row
		existing = &r
		return errStop
	})
	if err != nil && err != errStop {
		return coreutils.ErrStorageFailure("set attribute", objectID, err)
	}
	if existing != nil {
		return o.storage.UpdateValue(existing.ID, value)
	}
	_, err = o.storage.Insert(objectID, irows.DefaultOrder, fieldID, value)
	return err
}

// AddAttribute appends one more value of a multi-valued field.
func (o *Ops) AddAttribute(objectID, fieldID irows.ID, value string) (irows.ID, error) {
	order, err := o.nextOrder(objectID)
	if err != nil {
		return irows.NullID, err
	}
	return o.storage.Insert(objectID, order, fieldID, value)
}

// nextOrder returns the first free sibling position under parent.
func (o *Ops) nextOrder(parent irows.ID) (int, error) {
	max := 0
	err := o.storage.ReadChildren(o.ctx, parent, irows.NullID, func(row irows.Row) error {
		if row.Order > max {
			max = row.Order
		}
		return nil
	})
	if err != nil {
		return 0, coreutils.ErrStorageFailure("scan children", parent, err)
	}
	return max + 1, nil
}

var errStop = errors.New("stop scan")
