/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import "github.com/attrio/attrio/pkg/irows"

// DataKind is the base kind of a terminal type.
type DataKind uint8

const (
	DataKind_null DataKind = iota

	DataKind_ShortText
	DataKind_LongText
	DataKind_Number
	DataKind_Decimal
	DataKind_Date
	DataKind_DateTime
	DataKind_Boolean
	DataKind_Password
	DataKind_File
	DataKind_Path
	DataKind_Markup

	DataKind_ReportDef
	DataKind_ReportSubject
	DataKind_ReportColumn
	DataKind_ReportJoin

	DataKind_FakeLast
)

var kindNames = map[DataKind]string{
	DataKind_null:          "null",
	DataKind_ShortText:     "ShortText",
	DataKind_LongText:      "LongText",
	DataKind_Number:        "Number",
	DataKind_Decimal:       "Decimal",
	DataKind_Date:          "Date",
	DataKind_DateTime:      "DateTime",
	DataKind_Boolean:       "Boolean",
	DataKind_Password:      "Password",
	DataKind_File:          "File",
	DataKind_Path:          "Path",
	DataKind_Markup:        "Markup",
	DataKind_ReportDef:     "ReportDef",
	DataKind_ReportSubject: "ReportSubject",
	DataKind_ReportColumn:  "ReportColumn",
	DataKind_ReportJoin:    "ReportJoin",
}

func (k DataKind) String() string {
	if s, ok := kindNames[k]; ok {
		return "DataKind_" + s
	}
	return "DataKind_null"
}

// IsNumeric reports whether values of the kind participate in report totals.
func (k DataKind) IsNumeric() bool {
	return k == DataKind_Number || k == DataKind_Decimal
}

var sysKinds = map[irows.ID]DataKind{
	SysShortText:     DataKind_ShortText,
	SysLongText:      DataKind_LongText,
	SysNumber:        DataKind_Number,
	SysDecimal:       DataKind_Decimal,
	SysDate:          DataKind_Date,
	SysDateTime:      DataKind_DateTime,
	SysBoolean:       DataKind_Boolean,
	SysPassword:      DataKind_Password,
	SysFile:          DataKind_File,
	SysPath:          DataKind_Path,
	SysMarkup:        DataKind_Markup,
	SysReportDef:     DataKind_ReportDef,
	SysReportSubject: DataKind_ReportSubject,
	SysReportColumn:  DataKind_ReportColumn,
	SysReportJoin:    DataKind_ReportJoin,
}

// KindOf maps a system terminal type id to its kind. DataKind_null means the
// id does not name a terminal type.
func KindOf(typeID irows.ID) DataKind {
	return sysKinds[typeID]
}
