/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package rowops

import (
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

// Renumber moves a row to a new id, rewriting every row that references the
// old id as parent or type pointer. Value-level references are left alone:
// the legacy artifact never rewrote them either.
//
// The rewrite is composed from the store's non-atomic primitives; a failed
// step aborts everything that remains, leaving already-rewritten rows in
// place, and is reported loudly.
func (o *Ops) Renumber(oldID, newID irows.ID) error {
	if newID.IsNull() {
		return coreutils.ErrInvalidArgument("new id is null")
	}
	row, ok, err := o.storage.Get(oldID)
	if err != nil {
		return coreutils.ErrStorageFailure("renumber", oldID, err)
	}
	if !ok {
		return coreutils.ErrNotFound("row «%v»", oldID)
	}
	if _, taken, err := o.storage.Get(newID); err != nil {
		return coreutils.ErrStorageFailure("renumber", newID, err)
	} else if taken {
		return coreutils.ErrInvalidArgument("id «%v» is already taken", newID)
	}

	// referencing rows first, the moved row last
	var asParent, asType []irows.Row
	err = o.storage.ReadAll(o.ctx, func(r irows.Row) error {
		if r.ID == oldID {
			return nil
		}
		if r.Parent == oldID {
			asParent = append(asParent, r)
		}
		if r.Type == oldID {
			asType = append(asType, r)
		}
		return nil
	})
	if err != nil {
		return coreutils.ErrStorageFailure("renumber", oldID, err)
	}

	fail := func(step string, id irows.ID, err error) error {
		logger.Error(fmt.Sprintf("renumber «%v» -> «%v»: %s for «%v» failed, aborting: %v", oldID, newID, step, id, err))
		return coreutils.ErrStorageFailure("renumber", oldID, err)
	}

	moved := row
	moved.ID = newID
	// the type pointer of a self-referential row follows its id
	if moved.Type == oldID {
		moved.Type = newID
	}
	if err := o.storage.InsertExact(moved); err != nil {
		return fail("insert", newID, err)
	}

	for _, r := range asParent {
		if err := o.storage.Move(r.ID, newID, r.Order); err != nil {
			return fail("reparent", r.ID, err)
		}
	}
	for _, r := range asType {
		if r.Parent == oldID {
			// already moved under the new parent, refresh
			got, ok, err := o.storage.Get(r.ID)
			if err != nil || !ok {
				return fail("reload", r.ID, err)
			}
			r = got
		}
		if err := o.storage.Delete(r.ID); err != nil {
			return fail("retype", r.ID, err)
		}
		r.Type = newID
		if err := o.storage.InsertExact(r); err != nil {
			return fail("retype", r.ID, err)
		}
	}

	if err := o.storage.Delete(oldID); err != nil {
		return fail("delete", oldID, err)
	}
	return nil
}
