/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import "github.com/attrio/attrio/pkg/irows"

// System terminal types. Ids are fixed by the historical data layout: every
// dump produced by the legacy system numbers them this way.
const (
	SysShortText irows.ID = 1
	SysLongText  irows.ID = 2
	SysNumber    irows.ID = 3
	SysDecimal   irows.ID = 4
	SysDate      irows.ID = 5
	SysDateTime  irows.ID = 6
	SysBoolean   irows.ID = 7
	SysPassword  irows.ID = 8
	SysFile      irows.ID = 9
	SysPath      irows.ID = 10
	SysMarkup    irows.ID = 11

	// report-internal markers
	SysReportDef     irows.ID = 12
	SysReportSubject irows.ID = 13
	SysReportColumn  irows.ID = 14
	SysReportJoin    irows.ID = 15

	SysLastID = SysReportJoin
)

// UniqueFlag is the Order value marking a root-level type whose instance
// values must be unique. Plain root-level rows keep irows.DefaultOrder.
const UniqueFlag = 2

// maxRefDepth caps the reference-restriction chain walk; the relation does
// not forbid cycles a priori.
const maxRefDepth = 32

// refDisplayDelim joins display values of a multi-valued reference field.
const refDisplayDelim = ", "
