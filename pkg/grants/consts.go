/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package grants

import (
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/schemas"
)

const (
	levelRead  = "READ"
	levelWrite = "WRITE"

	ruleDelim  = "|"
	ruleMask   = "MASK"
	ruleExport = "EXP"
	ruleDelete = "DEL"
)

// maxDepth bounds the parent-chain recursion: stored data may contain cycles.
const maxDepth = 64

// refSkipKinds are the structural row kinds whose values are plan wiring, not
// data references, and so never grant through the referenced-id step. The
// legacy system hardcoded these two; the general rule is unknown, extend the
// set if more kinds surface.
var refSkipKinds = map[irows.ID]bool{
	schemas.SysReportColumn: true,
	schemas.SysReportJoin:   true,
}
