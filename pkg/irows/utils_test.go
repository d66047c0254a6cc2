/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package irows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/irows/mem"
)

// sequencedStorage fails any read issued while another scan is still open,
// the way a transactional driver would.
type sequencedStorage struct {
	irows.IRowStorage
	scanning bool
}

func (s *sequencedStorage) ReadByType(ctx context.Context, typePointer irows.ID, cb irows.ReadCallback) error {
	s.scanning = true
	defer func() { s.scanning = false }()
	return s.IRowStorage.ReadByType(ctx, typePointer, cb)
}

func (s *sequencedStorage) ReadChildren(ctx context.Context, parent, typePointer irows.ID, cb irows.ReadCallback) error {
	if s.scanning {
		return errors.New("read issued inside an open scan")
	}
	return s.IRowStorage.ReadChildren(ctx, parent, typePointer, cb)
}

func TestScanJoined_DoesNotInterleaveReads(t *testing.T) {
	require := require.New(t)
	factory := mem.Provide()
	require.NoError(factory.Init("test"))
	inner, err := factory.Storage("test")
	require.NoError(err)

	rows := []irows.Row{
		{ID: 1, Parent: 0, Type: 1, Order: 1, Value: "type"},
		{ID: 2, Parent: 0, Type: 1, Order: 1, Value: "subject a"},
		{ID: 3, Parent: 0, Type: 1, Order: 1, Value: "subject b"},
		{ID: 4, Parent: 2, Type: 7, Order: 1, Value: "child of a"},
	}
	for _, r := range rows {
		require.NoError(inner.InsertExact(r))
	}

	storage := &sequencedStorage{IRowStorage: inner}
	q := irows.JoinQuery{SubjectType: 1, ChildTypes: []irows.ID{7}}

	var got []irows.JoinedRow
	require.NoError(irows.ScanJoined(context.Background(), storage, q, func(jr irows.JoinedRow) error {
		got = append(got, jr)
		return nil
	}))

	require.Len(got, 3)
	require.Equal(irows.ID(2), got[1].Subject.ID)
	require.True(got[1].Children[0].Ok)
	require.Equal(irows.ID(4), got[1].Children[0].Row.ID)
	require.False(got[2].Children[0].Ok)
}
