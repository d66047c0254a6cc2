/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import (
	"errors"

	"github.com/attrio/attrio/pkg/irows"
)

var sysNames = map[irows.ID]string{
	SysShortText:     "Short text",
	SysLongText:      "Long text",
	SysNumber:        "Number",
	SysDecimal:       "Decimal",
	SysDate:          "Date",
	SysDateTime:      "Date and time",
	SysBoolean:       "Boolean",
	SysPassword:      "Password",
	SysFile:          "File",
	SysPath:          "Path",
	SysMarkup:        "Markup",
	SysReportDef:     "Report",
	SysReportSubject: "Report subject",
	SysReportColumn:  "Report column",
	SysReportJoin:    "Report join",
}

// SeedSysRows stores the system terminal types into an empty storage.
// Already-present rows are kept as is, so re-seeding is harmless.
func SeedSysRows(storage irows.IRowStorage) error {
	for id := irows.ID(1); id <= SysLastID; id++ {
		err := storage.InsertExact(irows.Row{
			ID:     id,
			Parent: irows.NullID,
			Type:   id,
			Order:  irows.DefaultOrder,
			Value:  sysNames[id],
		})
		if err != nil && !errors.Is(err, irows.ErrRowExists) {
			return err
		}
	}
	return nil
}
