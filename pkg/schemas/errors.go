/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package schemas

import (
	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

func ErrTypeNotFound(id irows.ID) error {
	return coreutils.ErrNotFound("type «%v»", id)
}

func ErrObjectNotFound(id irows.ID) error {
	return coreutils.ErrNotFound("object «%v»", id)
}
