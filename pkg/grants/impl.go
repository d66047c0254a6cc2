/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package grants

import (
	"context"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/attrio/attrio/pkg/irows"
)

// Resolver answers access checks for one principal. The rule map is loaded
// once per Resolver and a Resolver lives for one request: rule edits are
// visible to the next request without any invalidation protocol.
//
// Every storage failure on the resolution path is fail-closed: logged,
// converted to "not granted", never surfaced as an error.
type Resolver struct {
	ctx       context.Context
	storage   irows.IRowStorage
	principal Principal
	rules     map[irows.ID]Rule
}

// CheckGrant reports whether the principal holds level access to the row id
// of type typeID (0 when the caller does not know the type).
func (r *Resolver) CheckGrant(id, typeID irows.ID, level Level) bool {
	return r.check(id, typeID, level, 0)
}

func (r *Resolver) check(id, typeID irows.ID, level Level, depth int) bool {
	if r.principal.Admin {
		return true
	}
	if depth >= maxDepth {
		logger.Error(fmt.Sprintf("grant check for «%v»: parent chain deeper than %d, denying", id, maxDepth))
		return false
	}

	// explicit rules resolve with no fall-through
	if !typeID.IsNull() {
		if rule, ok := r.rules[typeID]; ok {
			return r.verdict(id, level, "explicit rule on type", rule)
		}
	}
	if rule, ok := r.rules[id]; ok {
		return r.verdict(id, level, "explicit rule on id", rule)
	}

	sc, ok := r.fetchContext(id)
	if !ok {
		return false
	}

	// fixed precedence, first signal wins
	for _, s := range [...]struct {
		desc   string
		target irows.ID
	}{
		{"own type", sc.ownType},
		{"array-membership type", sc.membershipType},
		{"referenced id", sc.referencedID},
		{"parent type", sc.parentType},
		{"parent id", sc.parentID},
	} {
		if s.target.IsNull() {
			continue
		}
		if rule, ok := r.rules[s.target]; ok {
			return r.verdict(id, level, s.desc, rule)
		}
	}

	if !sc.parentID.IsNull() {
		return r.check(sc.parentID, irows.NullID, level, depth+1)
	}

	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("%s on «%v» for principal «%v»: no rule matched -> deny", level, id, r.principal.ID))
	}
	return false
}

func (r *Resolver) verdict(id irows.ID, level Level, desc string, rule Rule) bool {
	granted := rule.allows(level)
	if !granted && logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("%s on «%v» for principal «%v»: %s %s -> deny", level, id, r.principal.ID, desc, rule.Level))
	}
	return granted
}

// structural context of the checked row, feeding the fallback strategies
type checkContext struct {
	ownType        irows.ID
	membershipType irows.ID
	referencedID   irows.ID
	parentType     irows.ID
	parentID       irows.ID
}

func (r *Resolver) fetchContext(id irows.ID) (sc checkContext, ok bool) {
	row, found, err := r.storage.Get(id)
	if err != nil {
		logger.Error(fmt.Sprintf("grant check for «%v»: %v, denying", id, err))
		return sc, false
	}
	if !found {
		return sc, false
	}

	sc.ownType = row.Type

	// an attribute row's type pointer is a field definition; its target type
	// is what the attribute is a member of
	if !row.Type.IsNull() {
		typeRow, found, err := r.storage.Get(row.Type)
		if err != nil {
			logger.Error(fmt.Sprintf("grant check for «%v»: %v, denying", id, err))
			return checkContext{}, false
		}
		if found && !typeRow.Parent.IsNull() {
			sc.membershipType = typeRow.Type
		}
	}

	if !refSkipKinds[row.Type] {
		if ref, isRef := irows.ParseID(row.Value); isRef {
			if _, found, err := r.storage.Get(ref); err == nil && found {
				sc.referencedID = ref
			}
		}
	}

	if !row.Parent.IsNull() {
		parentRow, found, err := r.storage.Get(row.Parent)
		if err != nil {
			logger.Error(fmt.Sprintf("grant check for «%v»: %v, denying", id, err))
			return checkContext{}, false
		}
		if found {
			sc.parentID = parentRow.ID
			sc.parentType = parentRow.Type
		}
	}
	return sc, true
}

// Grant1Level is the root-visibility check used for listings only, never for
// write authorization: granted when the principal has an explicit rule on id
// or on the root, or when some row referencing id sits under a granted type.
func (r *Resolver) Grant1Level(id irows.ID) bool {
	if r.principal.Admin {
		return true
	}
	if _, ok := r.rules[id]; ok {
		return true
	}
	if _, ok := r.rules[irows.NullID]; ok {
		return true
	}

	want := id.String()
	granted := false
	err := r.storage.ReadAll(r.ctx, func(row irows.Row) error {
		if row.Value != want {
			return nil
		}
		parentRow, found, err := r.storage.Get(row.Parent)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		if rule, ok := r.rules[parentRow.Type]; ok && rule.allows(Level_Read) {
			granted = true
			return errStopScan
		}
		return nil
	})
	if err != nil && err != errStopScan {
		logger.Error(fmt.Sprintf("grant1level for «%v»: %v, denying", id, err))
		return false
	}
	return granted
}

var errStopScan = fmt.Errorf("stop")

func loadRules(ctx context.Context, storage irows.IRowStorage, principal Principal) map[irows.ID]Rule {
	rules := map[irows.ID]Rule{}
	if principal.ID.IsNull() {
		return rules
	}
	err := storage.ReadChildren(ctx, principal.ID, irows.NullID, func(row irows.Row) error {
		rule, ok := parseRule(row.Value)
		if !ok {
			// not a rule row, roles may carry other children
			return nil
		}
		rules[row.Type] = rule
		return nil
	})
	if err != nil {
		logger.Error(fmt.Sprintf("loading rules for principal «%v»: %v, failing closed", principal.ID, err))
		return map[irows.ID]Rule{}
	}
	return rules
}
