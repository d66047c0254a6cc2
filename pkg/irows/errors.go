/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package irows

import "errors"

var (
	ErrStorageDoesNotExist  = errors.New("storage does not exist")
	ErrStorageAlreadyExists = errors.New("storage already exists")

	// ErrRowExists is returned by InsertExact for an already-taken id.
	ErrRowExists = errors.New("row already exists")

	// ErrRowNotFound is returned by UpdateValue and Move for an absent id.
	ErrRowNotFound = errors.New("row not found")
)
