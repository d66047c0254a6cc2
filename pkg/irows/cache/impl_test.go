/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/attrio/attrio/pkg/irows"
	"github.com/attrio/attrio/pkg/irows/mem"
)

func TestTCK(t *testing.T) {
	irows.TechnologyCompatibilityKit(t, Provide(mem.Provide(), 1<<20))
}

func TestCacheInvalidation(t *testing.T) {
	require := require.New(t)

	factory := Provide(mem.Provide(), 1<<20)
	require.NoError(factory.Init("test"))
	storage, err := factory.Storage("test")
	require.NoError(err)

	id, err := storage.Insert(irows.NullID, irows.DefaultOrder, irows.NullID, "before")
	require.NoError(err)

	// warm the cache
	row, ok, err := storage.Get(id)
	require.NoError(err)
	require.True(ok)
	require.Equal("before", row.Value)

	require.NoError(storage.UpdateValue(id, "after"))
	row, ok, err = storage.Get(id)
	require.NoError(err)
	require.True(ok)
	require.Equal("after", row.Value, "a write must drop the cached row")

	require.NoError(storage.Delete(id))
	_, ok, err = storage.Get(id)
	require.NoError(err)
	require.False(ok)
}

func TestCachedRowsSurvivePooledBuffers(t *testing.T) {
	require := require.New(t)

	factory := Provide(mem.Provide(), 1<<20)
	require.NoError(factory.Init("test"))
	storage, err := factory.Storage("test")
	require.NoError(err)

	type seed struct {
		id    irows.ID
		value string
	}
	var seeds []seed
	for i, value := range []string{"alpha", "a much longer value than the first one", "b", ""} {
		id, err := storage.Insert(irows.NullID, i+1, irows.NullID, value)
		require.NoError(err)
		seeds = append(seeds, seed{id, value})
	}

	// first pass fills the cache, second pass reads cached copies; rows
	// cached through a reused buffer must not bleed into each other
	for pass := 0; pass < 2; pass++ {
		for _, s := range seeds {
			row, ok, err := storage.Get(s.id)
			require.NoError(err)
			require.True(ok)
			require.Equal(s.value, row.Value)
		}
	}
}
