/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package mem

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/attrio/attrio/pkg/irows"
)

type storageFactory struct {
	mu       sync.Mutex
	storages map[string]*storageType
}

func (f *storageFactory) Storage(name string) (irows.IRowStorage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.storages[name]
	if !ok {
		return nil, irows.ErrStorageDoesNotExist
	}
	return s, nil
}

func (f *storageFactory) Init(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.storages[name]; ok {
		return irows.ErrStorageAlreadyExists
	}
	f.storages[name] = &storageType{rows: map[irows.ID]irows.Row{}}
	return nil
}

func (f *storageFactory) Stop() {}

type storageType struct {
	mu     sync.RWMutex
	rows   map[irows.ID]irows.Row
	lastID irows.ID
}

func (s *storageType) Get(id irows.ID) (irows.Row, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	return row, ok, nil
}

// snapshot returns ids sorted ascending; scans iterate the snapshot so the
// callback may mutate the storage.
func (s *storageType) snapshot() []irows.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]irows.ID, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *storageType) ReadChildren(ctx context.Context, parent, typePointer irows.ID, cb irows.ReadCallback) error {
	var children []irows.Row
	s.mu.RLock()
	for _, row := range s.rows {
		if row.Parent == parent && (typePointer.IsNull() || row.Type == typePointer) {
			children = append(children, row)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(children, func(a, b irows.Row) bool {
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	for _, row := range children {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := cb(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *storageType) ReadByType(ctx context.Context, typePointer irows.ID, cb irows.ReadCallback) error {
	for _, id := range s.snapshot() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		row, ok, _ := s.Get(id)
		if !ok || row.Type != typePointer {
			continue
		}
		if err := cb(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *storageType) ReadAll(ctx context.Context, cb irows.ReadCallback) error {
	for _, id := range s.snapshot() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		row, ok, _ := s.Get(id)
		if !ok {
			continue
		}
		if err := cb(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *storageType) ReadJoined(ctx context.Context, q irows.JoinQuery, cb irows.JoinedCallback) error {
	return irows.ScanJoined(ctx, s, q, cb)
}

func (s *storageType) Insert(parent irows.ID, order int, typePointer irows.ID, value string) (irows.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	id := s.lastID
	s.rows[id] = irows.Row{ID: id, Parent: parent, Type: typePointer, Order: order, Value: value}
	return id, nil
}

func (s *storageType) InsertExact(row irows.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[row.ID]; ok {
		return irows.ErrRowExists
	}
	s.rows[row.ID] = row
	if row.ID > s.lastID {
		s.lastID = row.ID
	}
	return nil
}

func (s *storageType) UpdateValue(id irows.ID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return irows.ErrRowNotFound
	}
	row.Value = value
	s.rows[id] = row
	return nil
}

func (s *storageType) Move(id irows.ID, parent irows.ID, order int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return irows.ErrRowNotFound
	}
	row.Parent = parent
	row.Order = order
	s.rows[id] = row
	return nil
}

func (s *storageType) Delete(id irows.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *storageType) DeleteChildren(parent irows.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, row := range s.rows {
		if row.Parent == parent {
			delete(s.rows, id)
		}
	}
	return nil
}
