/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package reports

import (
	"github.com/attrio/attrio/pkg/coreutils"
	"github.com/attrio/attrio/pkg/irows"
)

func ErrReportNotFound(id irows.ID) error {
	return coreutils.ErrNotFound("report «%v»", id)
}

var ErrRowCapExceeded = coreutils.ErrInvalidArgument("report scan exceeds the row cap")
