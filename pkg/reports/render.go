/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import "github.com/attrio/attrio/pkg/irows"

// The historically-fixed wire shapes are projections of one Result; none of
// them re-queries storage.

// RenderRows projects row-major value arrays.
func RenderRows(r *Result) [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		values := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			values[j] = cell.Value
		}
		out[i] = values
	}
	return out
}

// ColumnData is one column of the column-major shape.
type ColumnData struct {
	Label  string
	Values []string
}

// RenderColumns projects column-major arrays. Every subject/reference column
// is followed by a synthetic identifier column carrying the row ids the
// values came from.
func RenderColumns(r *Result) []ColumnData {
	var out []ColumnData
	for j, col := range r.Plan.Columns {
		data := ColumnData{Label: col.Label, Values: make([]string, len(r.Rows))}
		for i, row := range r.Rows {
			data.Values[i] = row.Cells[j].Value
		}
		out = append(out, data)

		if col.OwnValue || col.Reference {
			ids := ColumnData{Label: col.Label + idColumnSuffix, Values: make([]string, len(r.Rows))}
			for i, row := range r.Rows {
				if ref := row.Cells[j].Ref; !ref.IsNull() {
					ids.Values[i] = ref.String()
				}
			}
			out = append(out, ids)
		}
	}
	return out
}

// RenderNamed projects an array of label-keyed objects.
func RenderNamed(r *Result) []map[string]string {
	out := make([]map[string]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = namedRow(r.Plan, row)
	}
	return out
}

// RenderFirstNamed projects the first row as a single label-keyed object,
// nil when the result is empty.
func RenderFirstNamed(r *Result) map[string]string {
	if len(r.Rows) == 0 {
		return nil
	}
	return namedRow(r.Plan, r.Rows[0])
}

// RenderByID projects id-keyed nested objects.
func RenderByID(r *Result) map[string]map[string]string {
	out := make(map[string]map[string]string, len(r.Rows))
	for _, row := range r.Rows {
		out[row.SubjectID.String()] = namedRow(r.Plan, row)
	}
	return out
}

// Group is one node of the parent-grouped hierarchical shape.
type Group struct {
	Parent irows.ID
	Rows   []map[string]string
}

// RenderGrouped groups rows under their subject's parent id, groups ordered
// by first appearance.
func RenderGrouped(r *Result) []Group {
	index := map[irows.ID]int{}
	var out []Group
	for _, row := range r.Rows {
		i, ok := index[row.SubjectParent]
		if !ok {
			i = len(out)
			index[row.SubjectParent] = i
			out = append(out, Group{Parent: row.SubjectParent})
		}
		out[i].Rows = append(out[i].Rows, namedRow(r.Plan, row))
	}
	return out
}

func namedRow(plan *Plan, row ResultRow) map[string]string {
	m := make(map[string]string, len(plan.Columns)+1)
	m["id"] = row.SubjectID.String()
	for j, col := range plan.Columns {
		m[col.Label] = row.Cells[j].Value
	}
	return m
}
