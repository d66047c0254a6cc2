/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package rowops

import (
	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/schemas"
)

// CountReferences counts attribute rows whose value points at id through a
// reference field. Plain text attributes that merely look numeric do not
// count: the owning field must target another type.
func (o *Ops) CountReferences(id irows.ID) (int, error) {
	refField := map[irows.ID]bool{}
	isRefField := func(fieldID irows.ID) (bool, error) {
		if v, ok := refField[fieldID]; ok {
			return v, nil
		}
		fieldRow, ok, err := o.storage.Get(fieldID)
		if err != nil {
			return false, err
		}
		v := ok && !fieldRow.Type.IsNull() && schemas.KindOf(fieldRow.Type) == schemas.DataKind_null
		refField[fieldID] = v
		return v, nil
	}

	count := 0
	err := o.storage.ReadAll(o.ctx, func(r irows.Row) error {
		if r.Type.IsNull() {
			return nil
		}
		target, ok := irows.ParseID(r.Value)
		if !ok || target != id {
			return nil
		}
		ref, err := isRefField(r.Type)
		if err != nil {
			return err
		}
		if ref {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, coreutils.ErrStorageFailure("count references", id, err)
	}
	return count, nil
}

// Delete removes a row. Unless force is set the row must not be referenced
// by any attribute; a referenced row yields the blocking count so callers
// can report it.
func (o *Ops) Delete(id irows.ID, force bool) error {
	if _, ok, err := o.storage.Get(id); err != nil {
		return coreutils.ErrStorageFailure("delete", id, err)
	} else if !ok {
		return coreutils.ErrNotFound("row «%v»", id)
	}
	if !force {
		refs, err := o.CountReferences(id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return coreutils.ErrConflictingReference(id, refs)
		}
	}
	if err := o.storage.Delete(id); err != nil {
		return coreutils.ErrStorageFailure("delete", id, err)
	}
	return nil
}

// DeleteTree removes a row and all of its descendants, depth first. The
// reference check applies to the root only: children go down with it.
func (o *Ops) DeleteTree(id irows.ID, force bool) error {
	if _, ok, err := o.storage.Get(id); err != nil {
		return coreutils.ErrStorageFailure("delete tree", id, err)
	} else if !ok {
		return coreutils.ErrNotFound("row «%v»", id)
	}
	if !force {
		refs, err := o.CountReferences(id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return coreutils.ErrConflictingReference(id, refs)
		}
	}
	return o.deleteSubtree(id)
}

func (o *Ops) deleteSubtree(id irows.ID) error {
	var children []irows.ID
	err := o.storage.ReadChildren(o.ctx, id, irows.NullID, func(r irows.Row) error {
		children = append(children, r.ID)
		return nil
	})
	if err != nil {
		return coreutils.ErrStorageFailure("delete tree", id, err)
	}
	for _, child := range children {
		if err := o.deleteSubtree(child); err != nil {
			return err
		}
	}
	if err := o.storage.Delete(id); err != nil {
		return coreutils.ErrStorageFailure("delete tree", id, err)
	}
	return nil
}
