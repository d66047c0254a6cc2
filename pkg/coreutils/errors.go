/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package coreutils

import (
	"errors"
	"fmt"
)

// EnrichError wraps err with a formatted message, keeping err matchable by errors.Is.
func EnrichError(err error, msg string, args ...any) error {
	s := msg
	if len(args) > 0 {
		s = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%w: %s", err, s)
}

var ErrNotFoundError = errors.New("not found")

func ErrNotFound(msg string, args ...any) error {
	return EnrichError(ErrNotFoundError, msg, args...)
}

var ErrInvalidArgumentError = errors.New("invalid argument")

func ErrInvalidArgument(msg string, args ...any) error {
	return EnrichError(ErrInvalidArgumentError, msg, args...)
}

var ErrConflictingReferenceError = errors.New("conflicting reference")

// ErrConflictingReference reports a delete blocked by inbound references.
func ErrConflictingReference(target fmt.Stringer, count int) error {
	return EnrichError(ErrConflictingReferenceError, "row «%v» is referenced by %d row(s)", target, count)
}

var ErrAccessDeniedError = errors.New("access denied")

func ErrAccessDenied(msg string, args ...any) error {
	return EnrichError(ErrAccessDeniedError, msg, args...)
}

var ErrStorageFailureError = errors.New("storage failure")

// ErrStorageFailure attaches operation and target context to a storage error.
// Raw driver internals stay inside err and are never rendered separately.
func ErrStorageFailure(op string, target fmt.Stringer, err error) error {
	return fmt.Errorf("%w: %s «%v»: %w", ErrStorageFailureError, op, target, err)
}
