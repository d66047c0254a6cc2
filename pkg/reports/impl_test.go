/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"context"
	"testing"

	requirepkg "github.com/stretchr/testify/require"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/irows/mem"
	"github.com/attrio/attrio/pkg/schemas"
)

type fixture struct {
	storage irows.IRowStorage

	invoice  irows.ID
	amount   irows.ID
	customer irows.ID
	person   irows.ID
	alice    irows.ID
	bob      irows.ID

	report irows.ID
}

// three invoices: 150/Alice, 90/Bob, 500/Alice
func newFixture(t *testing.T) *fixture {
	require := requirepkg.New(t)

	factory := mem.Provide()
	require.NoError(factory.Init("test"))
	storage, err := factory.Storage("test")
	require.NoError(err)
	require.NoError(schemas.SeedSysRows(storage))

	fx := &fixture{storage: storage}

	fx.person, err = storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Person")
	require.NoError(err)
	fx.alice, err = storage.Insert(irows.NullID, irows.DefaultOrder, fx.person, "Alice")
	require.NoError(err)
	fx.bob, err = storage.Insert(irows.NullID, irows.DefaultOrder, fx.person, "Bob")
	require.NoError(err)

	fx.invoice, err = storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "Invoice")
	require.NoError(err)
	fx.amount, err = storage.Insert(fx.invoice, 1, schemas.SysNumber, schemas.FieldModifiers{Required: true}.Encode("Amount"))
	require.NoError(err)
	fx.customer, err = storage.Insert(fx.invoice, 2, fx.person, "Customer")
	require.NoError(err)

	add := func(value, amount string, customer irows.ID) {
		inv, err := storage.Insert(irows.NullID, irows.DefaultOrder, fx.invoice, value)
		require.NoError(err)
		_, err = storage.Insert(inv, 1, fx.amount, amount)
		require.NoError(err)
		_, err = storage.Insert(inv, 2, fx.customer, customer.String())
		require.NoError(err)
	}
	add("INV-1", "150", fx.alice)
	add("INV-2", "90", fx.bob)
	add("INV-3", "500", fx.alice)

	fx.report, err = storage.Insert(irows.NullID, irows.DefaultOrder, schemas.SysReportDef, "Invoices")
	require.NoError(err)
	_, err = storage.Insert(fx.report, 1, schemas.SysReportSubject, fx.invoice.String())
	require.NoError(err)
	_, err = storage.Insert(fx.report, 2, schemas.SysReportColumn, fx.invoice.String())
	require.NoError(err)
	_, err = storage.Insert(fx.report, 3, schemas.SysReportColumn, fx.amount.String())
	require.NoError(err)
	_, err = storage.Insert(fx.report, 4, schemas.SysReportColumn, fx.customer.String())
	require.NoError(err)

	return fx
}

func TestCompile(t *testing.T) {
	require := requirepkg.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	plan, err := ProvideCompiler(ctx, fx.storage).Compile(fx.report)
	require.NoError(err)

	require.Equal("Invoices", plan.Name)
	require.Equal(fx.invoice, plan.Subject)
	require.Len(plan.Columns, 3)

	require.True(plan.Columns[0].OwnValue)
	require.Equal("Invoice", plan.Columns[0].Label)

	require.Equal("Amount", plan.Columns[1].Label)
	require.Equal(schemas.DataKind_Number, plan.Columns[1].DataKind)
	require.False(plan.Columns[1].Reference)

	require.Equal("Customer", plan.Columns[2].Label)
	require.True(plan.Columns[2].Reference)

	t.Run("not found", func(t *testing.T) {
		_, err := ProvideCompiler(ctx, fx.storage).Compile(100500)
		require.ErrorIs(err, coreutils.ErrNotFoundError)
	})

	t.Run("not a report", func(t *testing.T) {
		_, err := ProvideCompiler(ctx, fx.storage).Compile(fx.invoice)
		require.ErrorIs(err, coreutils.ErrInvalidArgumentError)
	})

	t.Run("extra joins", func(t *testing.T) {
		r2, err := fx.storage.Insert(irows.NullID, irows.DefaultOrder, schemas.SysReportDef, "ctx")
		require.NoError(err)
		_, err = fx.storage.Insert(r2, 1, schemas.SysReportSubject, fx.invoice.String())
		require.NoError(err)
		_, err = fx.storage.Insert(r2, 2, schemas.SysReportJoin, fx.customer.String())
		require.NoError(err)

		plan, err := ProvideCompiler(ctx, fx.storage).Compile(r2)
		require.NoError(err)
		require.Empty(plan.Columns, "extra joins contribute no output column")
		require.Equal([]irows.ID{fx.customer}, plan.ExtraJoins)
	})
}

func execute(t *testing.T, fx *fixture, filters Filters, limit, offset int, order string) *Result {
	ctx := context.Background()
	plan, err := ProvideCompiler(ctx, fx.storage).Compile(fx.report)
	requirepkg.NoError(t, err)
	result, err := ProvideExecutor(ctx, fx.storage).Execute(plan, filters, limit, offset, order)
	requirepkg.NoError(t, err)
	return result
}

func TestExecute(t *testing.T) {
	require := requirepkg.New(t)
	fx := newFixture(t)

	t.Run("unfiltered", func(t *testing.T) {
		result := execute(t, fx, nil, 0, 0, "")
		require.Equal(3, result.Count)
		require.Len(result.Rows, 3)

		require.Equal("INV-1", result.Rows[0].Cells[0].Value)
		require.Equal("150", result.Rows[0].Cells[1].Value)
		require.Equal("Alice", result.Rows[0].Cells[2].Value)
		require.Equal(fx.alice, result.Rows[0].Cells[2].Ref)

		// totals sum numeric columns over the whole result
		require.Equal(float64(0), result.Totals[0])
		require.Equal(float64(740), result.Totals[1])
	})

	t.Run("filter with lower bound and limit", func(t *testing.T) {
		filters := Filters{fx.amount: {From: "100"}}

		result := execute(t, fx, filters, 1, 0, "")
		require.Len(result.Rows, 1, "limit=1 returns exactly one row")

		unpaged := execute(t, fx, filters, 0, 0, "")
		require.Equal(2, unpaged.Count, "two invoices have Amount >= 100")
		require.Equal(float64(650), unpaged.Totals[1])
	})

	t.Run("totals cover the page when a limit is given", func(t *testing.T) {
		result := execute(t, fx, nil, 2, 0, fx.amount.String())
		require.Len(result.Rows, 2)
		require.Equal(float64(90+150), result.Totals[1])
	})

	t.Run("totals-count consistency across pages", func(t *testing.T) {
		filters := Filters{fx.amount: {From: "100"}}
		unpaged := execute(t, fx, filters, 0, 0, "")

		total := 0
		for offset := 0; ; offset++ {
			page := execute(t, fx, filters, 1, offset, "")
			if len(page.Rows) == 0 {
				break
			}
			total += len(page.Rows)
		}
		require.Equal(unpaged.Count, total)
	})

	t.Run("ordering", func(t *testing.T) {
		result := execute(t, fx, nil, 0, 0, "-"+fx.amount.String())
		require.Equal("500", result.Rows[0].Cells[1].Value)
		require.Equal("150", result.Rows[1].Cells[1].Value)
		require.Equal("90", result.Rows[2].Cells[1].Value)

		// unresolvable order ids are dropped, original order kept
		result = execute(t, fx, nil, 0, 0, "999999")
		require.Equal("INV-1", result.Rows[0].Cells[0].Value)
	})

	t.Run("filter by reference id", func(t *testing.T) {
		result := execute(t, fx, Filters{fx.customer: {From: "#" + fx.bob.String()}}, 0, 0, "")
		require.Equal(1, result.Count)
		require.Equal("INV-2", result.Rows[0].Cells[0].Value)
	})

	t.Run("contains filter", func(t *testing.T) {
		result := execute(t, fx, Filters{fx.customer: {Contains: "lic"}}, 0, 0, "")
		require.Equal(2, result.Count)
	})

	t.Run("equals filter", func(t *testing.T) {
		result := execute(t, fx, Filters{fx.amount: {Equals: "90"}}, 0, 0, "")
		require.Equal(1, result.Count)
	})

	t.Run("offset beyond result", func(t *testing.T) {
		result := execute(t, fx, nil, 5, 10, "")
		require.Empty(result.Rows)
		require.Equal(3, result.Count)
	})
}

func TestRender(t *testing.T) {
	require := requirepkg.New(t)
	fx := newFixture(t)
	result := execute(t, fx, nil, 0, 0, "")

	t.Run("rows", func(t *testing.T) {
		rows := RenderRows(result)
		require.Len(rows, 3)
		require.Equal([]string{"INV-1", "150", "Alice"}, rows[0])
	})

	t.Run("columns with synthetic id columns", func(t *testing.T) {
		cols := RenderColumns(result)
		// own value + id, Amount, Customer + id
		require.Len(cols, 5)
		require.Equal("Invoice", cols[0].Label)
		require.Equal("Invoice"+idColumnSuffix, cols[1].Label)
		require.Equal("Amount", cols[2].Label)
		require.Equal("Customer", cols[3].Label)
		require.Equal("Customer"+idColumnSuffix, cols[4].Label)

		require.Equal([]string{"150", "90", "500"}, cols[2].Values)
		require.Equal(fx.alice.String(), cols[4].Values[0])
		require.Equal(fx.bob.String(), cols[4].Values[1])
	})

	t.Run("named", func(t *testing.T) {
		named := RenderNamed(result)
		require.Len(named, 3)
		require.Equal("150", named[0]["Amount"])
		require.Equal("Alice", named[0]["Customer"])

		first := RenderFirstNamed(result)
		require.Equal(named[0], first)

		empty := &Result{Plan: result.Plan}
		require.Nil(RenderFirstNamed(empty))
	})

	t.Run("by id", func(t *testing.T) {
		byID := RenderByID(result)
		require.Len(byID, 3)
		row := byID[result.Rows[0].SubjectID.String()]
		require.Equal("INV-1", row["Invoice"])
	})

	t.Run("grouped", func(t *testing.T) {
		groups := RenderGrouped(result)
		// all three invoices are root-level
		require.Len(groups, 1)
		require.Equal(irows.NullID, groups[0].Parent)
		require.Len(groups[0].Rows, 3)
	})
}

func TestExecute_ScanCap(t *testing.T) {
	require := requirepkg.New(t)
	fx := newFixture(t)
	ctx := context.Background()

	plan, err := ProvideCompiler(ctx, fx.storage).Compile(fx.report)
	require.NoError(err)

	saved := maxScanRows
	maxScanRows = 2
	defer func() { maxScanRows = saved }()

	// a filter matching nothing still counts every scanned invoice
	filters := Filters{fx.amount: {Equals: "no such amount"}}
	_, err = ProvideExecutor(ctx, fx.storage).Execute(plan, filters, 0, 0, "")
	require.ErrorIs(err, ErrRowCapExceeded)

	t.Run("within the cap", func(t *testing.T) {
		require := requirepkg.New(t)
		maxScanRows = 3
		result, err := ProvideExecutor(ctx, fx.storage).Execute(plan, filters, 0, 0, "")
		require.NoError(err)
		require.Zero(result.Count)
	})
}
