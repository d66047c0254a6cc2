/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package grants

import (
	"context"

	"github.com/attrio/attrio/pkg/irows"
)

// Provide builds a request-scoped resolver with a freshly loaded rule map.
func Provide(ctx context.Context, storage irows.IRowStorage, principal Principal) *Resolver {
	return &Resolver{
		ctx:       ctx,
		storage:   storage,
		principal: principal,
		rules:     loadRules(ctx, storage, principal),
	}
}

// EncodeRule renders a rule into the stored payload form; row operations use
// it when granting.
func EncodeRule(r Rule) string {
	return r.encode()
}
