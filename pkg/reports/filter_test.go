/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attrio/attrio/pkg/schemas"
)

func TestMatchFrom(t *testing.T) {
	numCol := Column{DataKind: schemas.DataKind_Number}
	txtCol := Column{DataKind: schemas.DataKind_ShortText}

	tests := []struct {
		name string
		col  Column
		cell Cell
		from string
		want bool
	}{
		{"numeric bound holds", numCol, Cell{Value: "150"}, "100", true},
		{"numeric bound fails", numCol, Cell{Value: "50"}, "100", false},
		{"numeric bound inclusive", numCol, Cell{Value: "100"}, "100", true},
		{"lexicographic bound", txtCol, Cell{Value: "banana"}, "apple", true},
		{"lexicographic bound fails", txtCol, Cell{Value: "apple"}, "banana", false},
		{"exact by id", txtCol, Cell{Value: "Alice", Ref: 42}, "#42", true},
		{"exact by id fails", txtCol, Cell{Value: "Alice", Ref: 42}, "#43", false},
		{"exact by id malformed", txtCol, Cell{Value: "Alice", Ref: 42}, "#x", false},
		{"pattern", txtCol, Cell{Value: "Invoice-17"}, "~invoice*", true},
		{"pattern whole match", txtCol, Cell{Value: "Invoice-17"}, "~invoice", false},
		{"pattern middle", txtCol, Cell{Value: "north-west-7"}, "~*west*", true},
		{"negated pattern", txtCol, Cell{Value: "Invoice-17"}, "!draft*", true},
		{"negated pattern fails", txtCol, Cell{Value: "draft-3"}, "!draft*", false},
	}
	require := require.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(tt.want, matchFrom(tt.col, tt.cell, tt.from))
		})
	}
}

func TestMatches(t *testing.T) {
	require := require.New(t)
	col := Column{DataKind: schemas.DataKind_Number}

	// all parts AND
	f := Filter{From: "100", To: "200", Contains: "5"}
	require.True(matches(col, Cell{Value: "150"}, f))
	require.False(matches(col, Cell{Value: "250"}, f), "to bound")
	require.False(matches(col, Cell{Value: "120"}, f), "contains")

	require.True(matches(col, Cell{Value: "150"}, Filter{Equals: "150"}))
	require.False(matches(col, Cell{Value: "150"}, Filter{Equals: "15"}))

	require.True(matches(col, Cell{Value: "anything"}, Filter{}))
}

func TestMatchPattern(t *testing.T) {
	require := require.New(t)

	require.True(matchPattern("Report", "report"))
	require.False(matchPattern("Reports", "report"))
	require.True(matchPattern("Reports", "report*"))
	require.True(matchPattern("year 2024 totals", "*2024*"))
	require.True(matchPattern("abc", "*"))
	require.True(matchPattern("", "*"))
	require.False(matchPattern("abc", "*d*"))
	require.True(matchPattern("a-b-c", "a*b*c"))
	require.False(matchPattern("a-c", "a*b*c"))
}

func TestParseOrderSpec(t *testing.T) {
	require := require.New(t)

	plan := &Plan{Columns: []Column{{Target: 10}, {Target: 20}, {Target: 30}}}

	require.Nil(parseOrderSpec("", plan))
	require.Equal([]orderTerm{{column: 0, desc: false}}, parseOrderSpec("10", plan))
	require.Equal(
		[]orderTerm{{column: 2, desc: true}, {column: 1, desc: false}},
		parseOrderSpec("-30,20", plan))

	// unresolvable ids are dropped silently
	require.Equal([]orderTerm{{column: 0, desc: false}}, parseOrderSpec("99,10,zzz", plan))
}
