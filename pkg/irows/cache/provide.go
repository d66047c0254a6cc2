/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package cache

import "github.com/attrio/attrio/pkg/irows"

// Provide wraps factory so that every storage it opens caches point lookups
// in a fastcache instance bounded by maxBytes.
func Provide(factory irows.IRowStorageFactory, maxBytes int) irows.IRowStorageFactory {
	return &cachedFactory{factory: factory, maxBytes: maxBytes}
}
