/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package sqlite

import (
	"database/sql"

	"github.com/attrio/attrio/pkg/irows"
)

func Provide(params ParamsType) irows.IRowStorageFactory {
	return &storageFactory{
		params: params,
		opened: map[string]*sql.DB{},
	}
}
