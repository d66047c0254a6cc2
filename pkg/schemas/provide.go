/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import (
	"context"

	"github.com/attrio/attrio/pkg/irows"
)

// Provide returns a request-scoped resolver over storage.
func Provide(ctx context.Context, storage irows.IRowStorage) IResolver {
	return &resolver{ctx: ctx, storage: storage}
}
