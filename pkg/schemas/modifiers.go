/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import "strings"

// FieldModifiers is the structured form of the markers packed into a field
// definition's value text. The legacy textual form is
//
//	marker|marker|...|display name
//
// with markers R (required), M (multi-valued) and A:alias. A payload whose
// leading segments are not all recognizable markers carries no modifiers at
// all: the whole text is the display name. The packing lives here and only
// here; the rest of the code works with this struct.
type FieldModifiers struct {
	Alias    string
	Required bool
	Multi    bool
}

const (
	modDelim    = "|"
	modRequired = "R"
	modMulti    = "M"
	modAlias    = "A:"
)

func (m FieldModifiers) IsZero() bool {
	return m == FieldModifiers{}
}

// ParseModifiers splits a field definition payload into modifiers and display
// name. Malformed payloads degrade to no modifiers.
func ParseModifiers(value string) (m FieldModifiers, name string) {
	segments := strings.Split(value, modDelim)
	for _, seg := range segments[:len(segments)-1] {
		switch {
		case seg == modRequired:
			m.Required = true
		case seg == modMulti:
			m.Multi = true
		case strings.HasPrefix(seg, modAlias) && len(seg) > len(modAlias):
			m.Alias = seg[len(modAlias):]
		default:
			// unknown marker: the whole payload is the name
			return FieldModifiers{}, value
		}
	}
	return m, segments[len(segments)-1]
}

// Encode packs modifiers and display name back into the legacy payload.
func (m FieldModifiers) Encode(name string) string {
	if m.IsZero() {
		return name
	}
	var b strings.Builder
	if m.Required {
		b.WriteString(modRequired)
		b.WriteString(modDelim)
	}
	if m.Multi {
		b.WriteString(modMulti)
		b.WriteString(modDelim)
	}
	if m.Alias != "" {
		b.WriteString(modAlias)
		b.WriteString(m.Alias)
		b.WriteString(modDelim)
	}
	b.WriteString(name)
	return b.String()
}
