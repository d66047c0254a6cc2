/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/schemas"
)

// Plan is a compiled report: the column descriptor set the executor runs.
type Plan struct {
	ReportID irows.ID
	Name     string

	// Subject is the type whose instances the report lists
	Subject irows.ID

	Columns []Column

	// ExtraJoins name additional type pointers joined on the subject id for
	// filter-only context; they contribute no output column
	ExtraJoins []irows.ID
}

// Column describes one output column.
type Column struct {
	// Target is the field-definition id, or the subject type id for the
	// "instance's own value" column
	Target irows.ID

	Label    string
	DataKind schemas.DataKind

	// OwnValue columns read the subject row's value directly
	OwnValue bool

	// Reference columns resolve the referenced row's display value; they are
	// paired with a synthetic identifier column when rendered column-major
	Reference bool
}

// Filter is one per-column restriction; all present parts are ANDed.
type Filter struct {
	// From is the lower bound, with a four-way dispatch on its first
	// character: '#' exact-by-id, '~' pattern, '!' negated pattern, anything
	// else a numeric/lexicographic bound. A plain value that itself starts
	// with one of the sentinels cannot be expressed as a bound; the dispatch
	// is kept as is for compatibility with stored legacy filters.
	From string

	// To is the upper bound (inclusive)
	To string

	Equals   string
	Contains string
}

func (f Filter) IsZero() bool { return f == Filter{} }

// Filters is keyed by column target.
type Filters map[irows.ID]Filter

// Cell is one result value. Ref carries the referenced row id for reference
// columns and the subject id for own-value columns.
type Cell struct {
	Value string
	Ref   irows.ID
}

type ResultRow struct {
	SubjectID     irows.ID
	SubjectParent irows.ID
	Cells         []Cell
}

// Result is the single internal result shape every renderer projects from.
type Result struct {
	Plan *Plan

	// Rows is the requested page
	Rows []ResultRow

	// Totals is aligned with Plan.Columns; only numeric columns are summed
	Totals []float64

	// Count of filtered rows before paging
	Count int
}
