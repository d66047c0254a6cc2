/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"sort"
	"strings"

	"github.com/attrio/attrio/pkg/irows"
)

type orderTerm struct {
	column int
	desc   bool
}

// parseOrderSpec resolves a comma-separated list of column ids, a leading '-'
// meaning descending. Unresolvable ids are dropped silently: stored order
// specs routinely outlive report edits.
func parseOrderSpec(spec string, plan *Plan) (terms []orderTerm) {
	if spec == "" {
		return nil
	}
	for _, part := range strings.Split(spec, orderDelim) {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, orderDesc)
		if desc {
			part = part[len(orderDesc):]
		}
		id, ok := irows.ParseID(part)
		if !ok {
			continue
		}
		for i, col := range plan.Columns {
			if col.Target == id {
				terms = append(terms, orderTerm{column: i, desc: desc})
				break
			}
		}
	}
	return terms
}

func orderRows(rows []ResultRow, terms []orderTerm) {
	if len(terms) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, t := range terms {
			c := compareValues(rows[i].Cells[t.column].Value, rows[j].Cells[t.column].Value)
			if c == 0 {
				continue
			}
			if t.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
