/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package irows

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TechnologyCompatibilityKit is the test suite every driver must pass.
func TechnologyCompatibilityKit(t *testing.T, factory IRowStorageFactory) {
	name := "tck-" + uuid.NewString()
	storage := testStorageFactory(t, factory, name)
	TechnologyCompatibilityKit_Storage(t, storage)
	factory.Stop()
}

// TechnologyCompatibilityKit_Storage tests a ready storage, e.g. the caching layer.
func TechnologyCompatibilityKit_Storage(t *testing.T, storage IRowStorage) {
	t.Run("InsertGet", func(t *testing.T) { testInsertGet(t, storage) })
	t.Run("InsertExact", func(t *testing.T) { testInsertExact(t, storage) })
	t.Run("ReadChildren", func(t *testing.T) { testReadChildren(t, storage) })
	t.Run("ReadByType", func(t *testing.T) { testReadByType(t, storage) })
	t.Run("ReadAll", func(t *testing.T) { testReadAll(t, storage) })
	t.Run("ReadJoined", func(t *testing.T) { testReadJoined(t, storage) })
	t.Run("UpdateMove", func(t *testing.T) { testUpdateMove(t, storage) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, storage) })
}

func testStorageFactory(t *testing.T, factory IRowStorageFactory, name string) IRowStorage {
	require := require.New(t)

	t.Run("ErrStorageDoesNotExist", func(t *testing.T) {
		s, err := factory.Storage(name)
		require.ErrorIs(err, ErrStorageDoesNotExist)
		require.Nil(s)
	})

	t.Run("ErrStorageAlreadyExists", func(t *testing.T) {
		require.NoError(factory.Init(name))
		require.ErrorIs(factory.Init(name), ErrStorageAlreadyExists)
	})

	storage, err := factory.Storage(name)
	require.NoError(err)
	return storage
}

func testInsertGet(t *testing.T, storage IRowStorage) {
	require := require.New(t)

	id, err := storage.Insert(NullID, DefaultOrder, NullID, "Person")
	require.NoError(err)
	require.False(id.IsNull())

	row, ok, err := storage.Get(id)
	require.NoError(err)
	require.True(ok)
	require.Equal(Row{ID: id, Parent: NullID, Type: NullID, Order: DefaultOrder, Value: "Person"}, row)

	// ids grow monotonically
	id2, err := storage.Insert(NullID, DefaultOrder, NullID, "Invoice")
	require.NoError(err)
	require.Greater(id2, id)

	_, ok, err = storage.Get(id2 + 100500)
	require.NoError(err)
	require.False(ok)
}

func testInsertExact(t *testing.T, storage IRowStorage) {
	require := require.New(t)

	row := Row{ID: 42_001, Parent: NullID, Type: 42_001, Order: DefaultOrder, Value: "Number"}
	require.NoError(storage.InsertExact(row))
	require.ErrorIs(storage.InsertExact(row), ErrRowExists)

	got, ok, err := storage.Get(row.ID)
	require.NoError(err)
	require.True(ok)
	require.Equal(row, got)

	// allocation must steer clear of explicitly inserted ids
	id, err := storage.Insert(NullID, DefaultOrder, NullID, "next")
	require.NoError(err)
	require.Greater(id, row.ID)
}

func testReadChildren(t *testing.T, storage IRowStorage) {
	require := require.New(t)
	ctx := context.Background()

	parent, err := storage.Insert(NullID, DefaultOrder, NullID, "parent")
	require.NoError(err)

	// inserted out of order on purpose
	c3, err := storage.Insert(parent, 3, 7, "third")
	require.NoError(err)
	c1, err := storage.Insert(parent, 1, 7, "first")
	require.NoError(err)
	c2, err := storage.Insert(parent, 2, 8, "second")
	require.NoError(err)

	var got []ID
	require.NoError(storage.ReadChildren(ctx, parent, NullID, func(row Row) error {
		got = append(got, row.ID)
		return nil
	}))
	require.Equal([]ID{c1, c2, c3}, got)

	got = nil
	require.NoError(storage.ReadChildren(ctx, parent, 7, func(row Row) error {
		got = append(got, row.ID)
		return nil
	}))
	require.Equal([]ID{c1, c3}, got)

	require.NoError(storage.ReadChildren(ctx, parent+100500, NullID, func(Row) error {
		t.Fatal("unexpected row")
		return nil
	}))
}

func testReadByType(t *testing.T, storage IRowStorage) {
	require := require.New(t)
	ctx := context.Background()

	typ, err := storage.Insert(NullID, DefaultOrder, NullID, "Dish")
	require.NoError(err)
	i1, err := storage.Insert(NullID, DefaultOrder, typ, "Pizza")
	require.NoError(err)
	i2, err := storage.Insert(NullID, DefaultOrder, typ, "Pasta")
	require.NoError(err)

	var got []ID
	require.NoError(storage.ReadByType(ctx, typ, func(row Row) error {
		got = append(got, row.ID)
		return nil
	}))
	require.Equal([]ID{i1, i2}, got)
}

func testReadAll(t *testing.T, storage IRowStorage) {
	require := require.New(t)
	ctx := context.Background()

	prev := NullID
	count := 0
	require.NoError(storage.ReadAll(ctx, func(row Row) error {
		require.Greater(row.ID, prev, "ReadAll must ascend by id")
		prev = row.ID
		count++
		return nil
	}))
	require.Positive(count)
}

func testReadJoined(t *testing.T, storage IRowStorage) {
	require := require.New(t)
	ctx := context.Background()

	typ, err := storage.Insert(NullID, DefaultOrder, NullID, "Order")
	require.NoError(err)
	fldA, err := storage.Insert(typ, 1, 3, "Amount")
	require.NoError(err)
	fldB, err := storage.Insert(typ, 2, 1, "Note")
	require.NoError(err)

	subj, err := storage.Insert(NullID, DefaultOrder, typ, "order-1")
	require.NoError(err)
	_, err = storage.Insert(subj, 1, fldA, "150")
	require.NoError(err)

	subj2, err := storage.Insert(NullID, DefaultOrder, typ, "order-2")
	require.NoError(err)

	var got []JoinedRow
	require.NoError(storage.ReadJoined(ctx, JoinQuery{SubjectType: typ, ChildTypes: []ID{fldA, fldB}}, func(jr JoinedRow) error {
		got = append(got, jr)
		return nil
	}))
	require.Len(got, 2)

	require.Equal(subj, got[0].Subject.ID)
	require.True(got[0].Children[0].Ok)
	require.Equal("150", got[0].Children[0].Row.Value)
	require.False(got[0].Children[1].Ok, "missing attribute joins as absent")

	require.Equal(subj2, got[1].Subject.ID)
	require.False(got[1].Children[0].Ok)
}

func testUpdateMove(t *testing.T, storage IRowStorage) {
	require := require.New(t)
	ctx := context.Background()

	parent, err := storage.Insert(NullID, DefaultOrder, NullID, "p")
	require.NoError(err)
	id, err := storage.Insert(parent, 1, 9, "before")
	require.NoError(err)

	require.NoError(storage.UpdateValue(id, "after"))
	row, ok, err := storage.Get(id)
	require.NoError(err)
	require.True(ok)
	require.Equal("after", row.Value)
	require.Equal(parent, row.Parent)

	parent2, err := storage.Insert(NullID, DefaultOrder, NullID, "p2")
	require.NoError(err)
	require.NoError(storage.Move(id, parent2, 5))

	row, ok, err = storage.Get(id)
	require.NoError(err)
	require.True(ok)
	require.Equal(parent2, row.Parent)
	require.Equal(5, row.Order)
	require.Equal("after", row.Value)

	require.NoError(storage.ReadChildren(ctx, parent, NullID, func(Row) error {
		t.Fatal("row left under old parent")
		return nil
	}))
}

func testDelete(t *testing.T, storage IRowStorage) {
	require := require.New(t)
	ctx := context.Background()

	parent, err := storage.Insert(NullID, DefaultOrder, NullID, "p")
	require.NoError(err)
	c1, err := storage.Insert(parent, 1, 9, "a")
	require.NoError(err)
	_, err = storage.Insert(parent, 2, 9, "b")
	require.NoError(err)

	require.NoError(storage.Delete(c1))
	_, ok, err := storage.Get(c1)
	require.NoError(err)
	require.False(ok)

	// absent id is a no-op
	require.NoError(storage.Delete(c1))

	require.NoError(storage.DeleteChildren(parent))
	require.NoError(storage.ReadChildren(ctx, parent, NullID, func(Row) error {
		t.Fatal("child survived DeleteChildren")
		return nil
	}))

	row, ok, err := storage.Get(parent)
	require.NoError(err)
	require.True(ok, "DeleteChildren must not touch the parent")
	require.Equal("p", row.Value)
}
