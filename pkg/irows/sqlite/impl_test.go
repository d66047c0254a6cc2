/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package sqlite

import (
	"testing"

	"github.com/attrio/attrio/pkg/irows"
)

func TestTCK(t *testing.T) {
	factory := Provide(ParamsType{DBDir: t.TempDir()})
	irows.TechnologyCompatibilityKit(t, factory)
}
