/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package irows

import "strconv"

// ID identifies a row. 0 is the root: it never names a stored row, but may
// appear as Parent (root-level rows) or as Type (composite type definitions).
type ID uint64

// NullID is the zero ID.
const NullID = ID(0)

func (id ID) IsNull() bool { return id == NullID }

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ParseID parses the decimal form used inside value payloads (references,
// report wiring). Returns false for anything that is not a positive decimal.
func ParseID(s string) (ID, bool) {
	if s == "" {
		return NullID, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return NullID, false
	}
	return ID(v), true
}

// Row is the atomic unit of the relation.
//
// Type (the type pointer) is context-dependent: for a root-level row it names
// the row's base type (Type == ID means terminal), for an instance it names
// the instance's composite type, for an attribute row it names the field.
//
// Order is the sibling sequence; for root-level composite types it doubles as
// the "values must be unique" flag.
type Row struct {
	ID     ID
	Parent ID
	Type   ID
	Order  int
	Value  string
}

func (r Row) String() string {
	return "row «" + r.ID.String() + "»"
}

// IsTerminal reports whether the row defines a terminal (primitive) type.
func (r Row) IsTerminal() bool { return r.ID == r.Type }

// DefaultOrder is the order value of a singleton sibling.
const DefaultOrder = 1

// JoinQuery describes the declaratively-joined query the report executor
// issues: all rows of SubjectType, each left-joined with its first child at
// (parent = subject.ID, typePointer = ChildTypes[i]) for every requested
// child type.
type JoinQuery struct {
	SubjectType ID
	ChildTypes  []ID
}

// JoinedRow is one result row of a JoinQuery. Children is aligned with
// JoinQuery.ChildTypes; a missing child is reported as Ok == false.
type JoinedRow struct {
	Subject  Row
	Children []JoinedChild
}

type JoinedChild struct {
	Row Row
	Ok  bool
}
