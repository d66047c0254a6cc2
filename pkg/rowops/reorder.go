/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package rowops

import (
	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

// Reorder moves a row to a new sibling position. Siblings between the old
// and the new position shift by one towards the freed slot, so a contiguous
// order stays contiguous. A failed step aborts the remaining shifts.
func (o *Ops) Reorder(id irows.ID, newOrder int) error {
	row, ok, err := o.storage.Get(id)
	if err != nil {
		return coreutils.ErrStorageFailure("reorder", id, err)
	}
	if !ok {
		return coreutils.ErrNotFound("row «%v»", id)
	}
	oldOrder := row.Order
	if oldOrder == newOrder {
		return nil
	}

	var siblings []irows.Row
	err = o.storage.ReadChildren(o.ctx, row.Parent, irows.NullID, func(sib irows.Row) error {
		if sib.ID != id {
			siblings = append(siblings, sib)
		}
		return nil
	})
	if err != nil {
		return coreutils.ErrStorageFailure("reorder", id, err)
	}

	for _, sib := range siblings {
		shifted := sib.Order
		switch {
		case newOrder > oldOrder && sib.Order > oldOrder && sib.Order <= newOrder:
			shifted = sib.Order - 1
		case newOrder < oldOrder && sib.Order >= newOrder && sib.Order < oldOrder:
			shifted = sib.Order + 1
		}
		if shifted == sib.Order {
			continue
		}
		if err := o.storage.Move(sib.ID, sib.Parent, shifted); err != nil {
			return coreutils.ErrStorageFailure("reorder", sib.ID, err)
		}
	}
	if err := o.storage.Move(id, row.Parent, newOrder); err != nil {
		return coreutils.ErrStorageFailure("reorder", id, err)
	}
	return nil
}
