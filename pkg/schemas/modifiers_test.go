/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     FieldModifiers
		wantName string
	}{
		{"plain name", "Amount", FieldModifiers{}, "Amount"},
		{"required", "R|Amount", FieldModifiers{Required: true}, "Amount"},
		{"multi", "M|Tags", FieldModifiers{Multi: true}, "Tags"},
		{"alias", "A:amt|Amount", FieldModifiers{Alias: "amt"}, "Amount"},
		{"all", "R|M|A:amt|Amount", FieldModifiers{Required: true, Multi: true, Alias: "amt"}, "Amount"},
		{"empty name", "R|", FieldModifiers{Required: true}, ""},
		{"unknown marker degrades", "X|Amount", FieldModifiers{}, "X|Amount"},
		{"bare alias marker degrades", "A:|Amount", FieldModifiers{}, "A:|Amount"},
		{"delimiter inside name degrades", "Net|Gross", FieldModifiers{}, "Net|Gross"},
		{"empty", "", FieldModifiers{}, ""},
	}
	require := require.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, name := ParseModifiers(tt.value)
			require.Equal(tt.want, m)
			require.Equal(tt.wantName, name)
		})
	}
}

func TestEncodeModifiers(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		m    FieldModifiers
		name string
		want string
	}{
		{FieldModifiers{}, "Amount", "Amount"},
		{FieldModifiers{Required: true}, "Amount", "R|Amount"},
		{FieldModifiers{Required: true, Multi: true, Alias: "amt"}, "Amount", "R|M|A:amt|Amount"},
	}
	for _, tt := range tests {
		require.Equal(tt.want, tt.m.Encode(tt.name))

		// round-trip
		m, name := ParseModifiers(tt.want)
		require.Equal(tt.m, m)
		require.Equal(tt.name, name)
	}
}
