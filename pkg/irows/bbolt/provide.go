/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package bbolt

import (
	bolt "go.etcd.io/bbolt"

	"github.com/attrio/attrio/pkg/irows"
)

func Provide(params ParamsType) irows.IRowStorageFactory {
	return &storageFactory{
		params: params,
		opened: map[string]*bolt.DB{},
	}
}
