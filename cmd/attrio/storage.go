/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package main

import (
	"errors"

	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/irows/bbolt"
	"github.com/attrio/attrio/pkg/irows/cache"
	"github.com/attrio/attrio/pkg/irows/mem"
	"github.com/attrio/attrio/pkg/irows/sqlite"
)

// openStorage opens the storage selected by the persistent flags. The
// returned stop function closes the underlying driver.
func openStorage() (storage irows.IRowStorage, stop func(), err error) {
	var factory irows.IRowStorageFactory
	switch storageKind {
	case "mem":
		factory = mem.Provide()
	case "bbolt":
		factory = bbolt.Provide(bbolt.ParamsType{DBDir: dbDir})
	case "sqlite":
		factory = sqlite.Provide(sqlite.ParamsType{DBDir: dbDir})
	default:
		return nil, nil, coreutils.ErrInvalidArgument("unknown storage driver %q", storageKind)
	}
	if cacheMB > 0 {
		factory = cache.Provide(factory, cacheMB*1024*1024)
	}

	if err = factory.Init(dbName); err != nil && !errors.Is(err, irows.ErrStorageAlreadyExists) {
		return nil, nil, err
	}
	if storage, err = factory.Storage(dbName); err != nil {
		factory.Stop()
		return nil, nil, err
	}
	return storage, factory.Stop, nil
}

func parseIDArg(arg, what string) (irows.ID, error) {
	id, ok := irows.ParseID(arg)
	if !ok {
		return irows.NullID, coreutils.ErrInvalidArgument("%s: %q is not an id", what, arg)
	}
	return id, nil
}
