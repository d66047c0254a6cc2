/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package mem

import "github.com/attrio/attrio/pkg/irows"

func Provide() irows.IRowStorageFactory {
	return &storageFactory{storages: map[string]*storageType{}}
}
