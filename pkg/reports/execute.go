/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"context"
	"errors"
	"strconv"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

// Executor runs compiled plans. One Executor serves one request.
type Executor struct {
	ctx     context.Context
	storage irows.IRowStorage
}

func ProvideExecutor(ctx context.Context, storage irows.IRowStorage) *Executor {
	return &Executor{ctx: ctx, storage: storage}
}

// Execute runs the plan's multi-join query, applies filters and ordering,
// pages and totals the outcome.
//
// limit <= 0 runs effectively unbounded (totals/count invocations); the scan
// is still bounded by maxScanRows and overruns fail with ErrRowCapExceeded.
// Totals cover the returned page when a limit is given and the whole filtered
// result otherwise.
func (e *Executor) Execute(plan *Plan, filters Filters, limit, offset int, orderSpec string) (*Result, error) {
	q := irows.JoinQuery{SubjectType: plan.Subject}
	childIdx := make([]int, len(plan.Columns)) // column -> index in q.ChildTypes, -1 for own value
	for i, col := range plan.Columns {
		if col.OwnValue {
			childIdx[i] = -1
			continue
		}
		childIdx[i] = len(q.ChildTypes)
		q.ChildTypes = append(q.ChildTypes, col.Target)
	}
	extraIdx := make([]int, len(plan.ExtraJoins))
	for i, t := range plan.ExtraJoins {
		extraIdx[i] = len(q.ChildTypes)
		q.ChildTypes = append(q.ChildTypes, t)
	}

	var rows []ResultRow
	scanned := 0
	err := e.storage.ReadJoined(e.ctx, q, func(jr irows.JoinedRow) error {
		// the subject type's own structural rows are not report data
		if jr.Subject.ID == jr.Subject.Type || jr.Subject.ID == plan.Subject {
			return nil
		}

		// scanned subjects count against the cap whether or not the
		// filters keep them
		scanned++
		if scanned > maxScanRows {
			return ErrRowCapExceeded
		}

		row := ResultRow{
			SubjectID:     jr.Subject.ID,
			SubjectParent: jr.Subject.Parent,
			Cells:         make([]Cell, len(plan.Columns)),
		}
		for i, col := range plan.Columns {
			row.Cells[i] = e.cell(col, jr, childIdx[i])
		}

		for i, col := range plan.Columns {
			f, ok := filters[col.Target]
			if !ok || f.IsZero() {
				continue
			}
			if !matches(col, row.Cells[i], f) {
				return nil
			}
		}
		// extra joins give filter-only context
		for i, t := range plan.ExtraJoins {
			f, ok := filters[t]
			if !ok || f.IsZero() {
				continue
			}
			cell := Cell{}
			if c := jr.Children[extraIdx[i]]; c.Ok {
				cell.Value = c.Row.Value
				cell.Ref = c.Row.ID
			}
			if !matches(Column{Target: t}, cell, f) {
				return nil
			}
		}

		rows = append(rows, row)
		return nil
	})
	if err != nil {
		if errors.Is(err, coreutils.ErrInvalidArgumentError) {
			return nil, err
		}
		return nil, coreutils.ErrStorageFailure("execute report", plan.ReportID, err)
	}

	orderRows(rows, parseOrderSpec(orderSpec, plan))

	result := &Result{Plan: plan, Count: len(rows)}

	page := rows
	if offset > 0 {
		if offset >= len(page) {
			page = nil
		} else {
			page = page[offset:]
		}
	}
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}
	result.Rows = page

	totalsOver := rows
	if limit > 0 {
		totalsOver = page
	}
	result.Totals = e.totals(plan, totalsOver)
	return result, nil
}

func (e *Executor) cell(col Column, jr irows.JoinedRow, childIdx int) Cell {
	if col.OwnValue {
		return Cell{Value: jr.Subject.Value, Ref: jr.Subject.ID}
	}
	child := jr.Children[childIdx]
	if !child.Ok {
		return Cell{}
	}
	if col.Reference {
		// stored value is the referenced id, the cell carries its display
		if refID, ok := irows.ParseID(child.Row.Value); ok {
			if refRow, found, err := e.storage.Get(refID); err == nil && found {
				return Cell{Value: refRow.Value, Ref: refID}
			}
		}
		return Cell{}
	}
	return Cell{Value: child.Row.Value}
}

func (e *Executor) totals(plan *Plan, rows []ResultRow) []float64 {
	totals := make([]float64, len(plan.Columns))
	for i, col := range plan.Columns {
		if !col.DataKind.IsNumeric() {
			continue
		}
		for _, row := range rows {
			if v, err := strconv.ParseFloat(row.Cells[i].Value, 64); err == nil {
				totals[i] += v
			}
		}
	}
	return totals
}
