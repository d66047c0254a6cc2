/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

const (
	// filter "from" dispatch sentinels
	fromExactID    = '#'
	fromPattern    = '~'
	fromNegPattern = '!'

	patternWildcard = "*"

	orderDelim = ","
	orderDesc  = "-"

	// synthetic identifier column suffix (column-major rendering)
	idColumnSuffix = ".id"
)

// maxScanRows is the hard cap on subjects scanned by one executor
// invocation; an effectively unbounded totals/count run on an adversarial
// filter stops here. Filters that reject a subject do not exempt it from
// the cap. Variable for tests.
var maxScanRows = 1 << 17
