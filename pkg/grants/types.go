/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package grants

import (
	"strings"

	"github.com/attrio/attrio/pkg/irows"
)

// Principal is an already-authenticated caller. Admin is the distinguished
// principal every check grants unconditionally.
type Principal struct {
	// ID of the role row holding the principal's rules
	ID irows.ID

	Admin bool
}

// Level is a requested or granted access level.
type Level uint8

const (
	Level_null Level = iota
	Level_Read
	Level_Write
)

func (l Level) String() string {
	switch l {
	case Level_Read:
		return levelRead
	case Level_Write:
		return levelWrite
	}
	return "?"
}

// Rule is one access-control entry of a role, keyed by target id or type.
type Rule struct {
	Level Level

	// sub-grants
	Mask   bool
	Export bool
	Delete bool
}

// allows: WRITE satisfies any request, READ only satisfies READ.
func (r Rule) allows(level Level) bool {
	if r.Level == Level_Write {
		return true
	}
	return level == Level_Read
}

// parseRule decodes the stored rule payload: level text with optional
// sub-grant markers, e.g. "WRITE|DEL|EXP". Unknown payloads yield ok == false
// and the rule is ignored.
func parseRule(value string) (r Rule, ok bool) {
	segments := strings.Split(value, ruleDelim)
	switch segments[0] {
	case levelRead:
		r.Level = Level_Read
	case levelWrite:
		r.Level = Level_Write
	default:
		return Rule{}, false
	}
	for _, seg := range segments[1:] {
		switch seg {
		case ruleMask:
			r.Mask = true
		case ruleExport:
			r.Export = true
		case ruleDelete:
			r.Delete = true
		default:
			return Rule{}, false
		}
	}
	return r, true
}

func (r Rule) encode() string {
	s := r.Level.String()
	if r.Mask {
		s += ruleDelim + ruleMask
	}
	if r.Export {
		s += ruleDelim + ruleExport
	}
	if r.Delete {
		s += ruleDelim + ruleDelete
	}
	return s
}
