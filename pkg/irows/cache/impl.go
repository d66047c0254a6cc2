/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package cache

import (
	"context"
	"encoding/binary"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/valyala/bytebufferpool"

	"github.com/attrio/attrio/pkg/irows"
)

// cachedStorage caches point lookups only. Scans and joins go straight to the
// underlying driver: their result sets depend on rows the cache cannot see.
// Every write drops the touched ids, so a Get after a write is never stale.
type cachedStorage struct {
	cache   *fastcache.Cache
	storage irows.IRowStorage
}

type cachedFactory struct {
	factory  irows.IRowStorageFactory
	maxBytes int
}

func (f *cachedFactory) Storage(name string) (irows.IRowStorage, error) {
	s, err := f.factory.Storage(name)
	if err != nil {
		return nil, err
	}
	return &cachedStorage{cache: fastcache.New(f.maxBytes), storage: s}, nil
}

func (f *cachedFactory) Init(name string) error { return f.factory.Init(name) }

func (f *cachedFactory) Stop() { f.factory.Stop() }

func key(id irows.ID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

func encode(bb *bytebufferpool.ByteBuffer, row irows.Row) {
	var hdr [24]byte
	binary.BigEndian.PutUint64(hdr[0:], uint64(row.Parent))
	binary.BigEndian.PutUint64(hdr[8:], uint64(row.Type))
	binary.BigEndian.PutUint64(hdr[16:], uint64(int64(row.Order)))
	bb.Write(hdr[:])
	bb.WriteString(row.Value)
}

func decode(id irows.ID, v []byte) irows.Row {
	return irows.Row{
		ID:     id,
		Parent: irows.ID(binary.BigEndian.Uint64(v[0:])),
		Type:   irows.ID(binary.BigEndian.Uint64(v[8:])),
		Order:  int(int64(binary.BigEndian.Uint64(v[16:]))),
		Value:  string(v[24:]),
	}
}

func (s *cachedStorage) Get(id irows.ID) (irows.Row, bool, error) {
	if v := s.cache.Get(nil, key(id)); len(v) >= 24 {
		return decode(id, v), true, nil
	}
	row, ok, err := s.storage.Get(id)
	if err != nil || !ok {
		return row, ok, err
	}
	bb := bytebufferpool.Get()
	encode(bb, row)
	// fastcache copies key and value, the pooled buffer can go back at once
	s.cache.Set(key(id), bb.B)
	bytebufferpool.Put(bb)
	return row, true, nil
}

func (s *cachedStorage) ReadChildren(ctx context.Context, parent, typePointer irows.ID, cb irows.ReadCallback) error {
	return s.storage.ReadChildren(ctx, parent, typePointer, cb)
}

func (s *cachedStorage) ReadByType(ctx context.Context, typePointer irows.ID, cb irows.ReadCallback) error {
	return s.storage.ReadByType(ctx, typePointer, cb)
}

func (s *cachedStorage) ReadAll(ctx context.Context, cb irows.ReadCallback) error {
	return s.storage.ReadAll(ctx, cb)
}

func (s *cachedStorage) ReadJoined(ctx context.Context, q irows.JoinQuery, cb irows.JoinedCallback) error {
	return s.storage.ReadJoined(ctx, q, cb)
}

func (s *cachedStorage) Insert(parent irows.ID, order int, typePointer irows.ID, value string) (irows.ID, error) {
	return s.storage.Insert(parent, order, typePointer, value)
}

func (s *cachedStorage) InsertExact(row irows.Row) error {
	err := s.storage.InsertExact(row)
	if err == nil {
		s.cache.Del(key(row.ID))
	}
	return err
}

func (s *cachedStorage) UpdateValue(id irows.ID, value string) error {
	err := s.storage.UpdateValue(id, value)
	if err == nil {
		s.cache.Del(key(id))
	}
	return err
}

func (s *cachedStorage) Move(id irows.ID, parent irows.ID, order int) error {
	err := s.storage.Move(id, parent, order)
	if err == nil {
		s.cache.Del(key(id))
	}
	return err
}

func (s *cachedStorage) Delete(id irows.ID) error {
	err := s.storage.Delete(id)
	if err == nil {
		s.cache.Del(key(id))
	}
	return err
}

func (s *cachedStorage) DeleteChildren(parent irows.ID) error {
	// ids under parent are unknown here, drop everything
	err := s.storage.DeleteChildren(parent)
	if err == nil {
		s.cache.Reset()
	}
	return err
}
