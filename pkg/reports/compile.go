/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"context"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/schemas"
)

// Compiler turns a stored report definition into a Plan.
type Compiler struct {
	ctx      context.Context
	storage  irows.IRowStorage
	resolver schemas.IResolver

	// fields per type, reports routinely share field owners
	fieldCache map[irows.ID][]schemas.Field
}

func ProvideCompiler(ctx context.Context, storage irows.IRowStorage) *Compiler {
	return &Compiler{
		ctx:        ctx,
		storage:    storage,
		resolver:   schemas.Provide(ctx, storage),
		fieldCache: map[irows.ID][]schemas.Field{},
	}
}

func (c *Compiler) Compile(reportID irows.ID) (*Plan, error) {
	row, ok, err := c.storage.Get(reportID)
	if err != nil {
		return nil, coreutils.ErrStorageFailure("compile report", reportID, err)
	}
	if !ok {
		return nil, ErrReportNotFound(reportID)
	}
	if row.Type != schemas.SysReportDef {
		return nil, coreutils.ErrInvalidArgument("row «%v» is not a report definition", reportID)
	}

	plan := &Plan{ReportID: reportID, Name: row.Value}

	// column declarations, ordered like the definition
	var columnTargets []irows.ID
	err = c.storage.ReadChildren(c.ctx, reportID, irows.NullID, func(child irows.Row) error {
		target, ok := irows.ParseID(child.Value)
		if !ok {
			return coreutils.ErrInvalidArgument("report «%v»: row «%v» declares no target", reportID, child.ID)
		}
		switch child.Type {
		case schemas.SysReportSubject:
			plan.Subject = target
		case schemas.SysReportColumn:
			columnTargets = append(columnTargets, target)
		case schemas.SysReportJoin:
			plan.ExtraJoins = append(plan.ExtraJoins, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if plan.Subject.IsNull() {
		return nil, coreutils.ErrInvalidArgument("report «%v» declares no subject", reportID)
	}

	for _, target := range columnTargets {
		col, err := c.resolveColumn(plan.Subject, target)
		if err != nil {
			return nil, err
		}
		plan.Columns = append(plan.Columns, col)
	}
	return plan, nil
}

func (c *Compiler) resolveColumn(subject, target irows.ID) (Column, error) {
	if target == subject {
		def, err := c.resolver.ResolveType(subject)
		if err != nil {
			return Column{}, err
		}
		return Column{
			Target:   target,
			Label:    def.Name,
			DataKind: schemas.DataKind_ShortText,
			OwnValue: true,
		}, nil
	}

	fieldRow, ok, err := c.storage.Get(target)
	if err != nil {
		return Column{}, coreutils.ErrStorageFailure("compile column", target, err)
	}
	if !ok {
		return Column{}, coreutils.ErrNotFound("column field «%v»", target)
	}

	field, err := c.fieldOf(fieldRow.Parent, target)
	if err != nil {
		return Column{}, err
	}
	return Column{
		Target:    target,
		Label:     field.DisplayName(),
		DataKind:  field.DataKind,
		Reference: field.Kind == schemas.FieldKind_Reference,
	}, nil
}

func (c *Compiler) fieldOf(owner, fieldID irows.ID) (schemas.Field, error) {
	fields, ok := c.fieldCache[owner]
	if !ok {
		var err error
		if fields, err = c.resolver.ResolveFields(owner); err != nil {
			return schemas.Field{}, err
		}
		c.fieldCache[owner] = fields
	}
	for _, f := range fields {
		if f.ID == fieldID {
			return f, nil
		}
	}
	return schemas.Field{}, coreutils.ErrNotFound("field «%v» in type «%v»", fieldID, owner)
}
