/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"strconv"
	"strings"

	"github.com/attrio/attrio/pkg/irows"
)

// matches applies one column filter to one cell; all present parts are ANDed.
func matches(col Column, cell Cell, f Filter) bool {
	if f.From != "" && !matchFrom(col, cell, f.From) {
		return false
	}
	if f.To != "" && compareValues(cell.Value, f.To) > 0 {
		return false
	}
	if f.Equals != "" && cell.Value != f.Equals {
		return false
	}
	if f.Contains != "" && !strings.Contains(strings.ToLower(cell.Value), strings.ToLower(f.Contains)) {
		return false
	}
	return true
}

// matchFrom dispatches the "from" bound on its leading sentinel.
func matchFrom(col Column, cell Cell, from string) bool {
	switch from[0] {
	case fromExactID:
		id, ok := irows.ParseID(from[1:])
		if !ok {
			return false
		}
		return cell.Ref == id
	case fromPattern:
		return matchPattern(cell.Value, from[1:])
	case fromNegPattern:
		return !matchPattern(cell.Value, from[1:])
	default:
		return compareValues(cell.Value, from) >= 0
	}
}

// matchPattern is the legacy wildcard match: '*' spans any run, anything else
// compares case-insensitively. A pattern without wildcards must match whole.
func matchPattern(value, pattern string) bool {
	value = strings.ToLower(value)
	pattern = strings.ToLower(pattern)
	if !strings.Contains(pattern, patternWildcard) {
		return value == pattern
	}
	parts := strings.Split(pattern, patternWildcard)
	if !strings.HasPrefix(value, parts[0]) {
		return false
	}
	value = value[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		i := strings.Index(value, part)
		if i < 0 {
			return false
		}
		value = value[i+len(part):]
	}
	return strings.HasSuffix(value, last)
}

// compareValues compares numerically when both sides parse as numbers and
// lexicographically otherwise.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
