/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package irows

import "context"

// IRowStorageFactory is implemented by a certain driver.
type IRowStorageFactory interface {
	// returns IRowStorage for an existing storage
	// returns ErrStorageDoesNotExist
	Storage(name string) (IRowStorage, error)

	// creates new storage
	// returns ErrStorageAlreadyExists
	Init(name string) error

	// Stop releases driver resources (connection pools, file handles).
	Stop()
}

// IRowStorage is the seam with the relation store. Lookups are indexed on
// id, parent, typePointer and order; the value column is not indexed.
//
// @ConcurrentAccess: implementations must be safe for concurrent use, the
// pool behind them is shared by independent requests.
type IRowStorage interface {
	// Get is a point lookup. ok == false means the row does not exist.
	Get(id ID) (row Row, ok bool, err error)

	// ReadChildren scans rows at (parent, typePointer) ordered by Order.
	// typePointer == NullID scans all children of parent.
	ReadChildren(ctx context.Context, parent, typePointer ID, cb ReadCallback) error

	// ReadByType scans rows whose type pointer equals typePointer, ascending id.
	ReadByType(ctx context.Context, typePointer ID, cb ReadCallback) error

	// ReadAll scans the whole relation in ascending id order.
	ReadAll(ctx context.Context, cb ReadCallback) error

	// ReadJoined runs the declaratively-joined query used by the report
	// executor.
	ReadJoined(ctx context.Context, q JoinQuery, cb JoinedCallback) error

	// Insert stores a new row and allocates its id.
	Insert(parent ID, order int, typePointer ID, value string) (ID, error)

	// InsertExact stores a row under an explicit id (dump restore).
	// Returns ErrRowExists when the id is already taken.
	InsertExact(row Row) error

	UpdateValue(id ID, value string) error

	// Move rewrites parent and order of an existing row.
	Move(id ID, parent ID, order int) error

	// Delete removes one row, non-recursively. Deleting an absent id is a no-op.
	Delete(id ID) error

	// DeleteChildren removes all direct children of parent, non-recursively.
	DeleteChildren(parent ID) error
}

// ReadCallback receives one row per call. Returning an error stops the scan.
type ReadCallback func(row Row) error

type JoinedCallback func(jr JoinedRow) error
