/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package bbolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/attrio/attrio/pkg/irows"
)

type ParamsType struct {
	// DBDir hosts one <name>.db file per storage
	DBDir string
}

type storageFactory struct {
	params ParamsType

	mu     sync.Mutex
	opened map[string]*bolt.DB
}

func (f *storageFactory) Storage(name string) (irows.IRowStorage, error) {
	dbName := filepath.Join(f.params.DBDir, name+".db")
	if _, err := os.Stat(dbName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, irows.ErrStorageDoesNotExist
		}
		return nil, err
	}
	db, err := f.open(dbName)
	if err != nil {
		return nil, err
	}
	return &storageType{db: db}, nil
}

func (f *storageFactory) Init(name string) error {
	dbName := filepath.Join(f.params.DBDir, name+".db")
	if _, err := os.Stat(dbName); err == nil {
		return irows.ErrStorageAlreadyExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(f.params.DBDir, fileModeDir); err != nil {
		return err
	}
	db, err := f.open(dbName)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		for _, b := range []string{rowsBucketName, parentBucketName, typeBucketName, metaBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return err
			}
		}
		return nil
	})
}

// open keeps one shared handle per file, bolt.Open locks the file exclusively
func (f *storageFactory) open(dbName string) (*bolt.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if db, ok := f.opened[dbName]; ok {
		return db, nil
	}
	db, err := bolt.Open(dbName, fileModeDB, bolt.DefaultOptions)
	if err != nil {
		return nil, err
	}
	f.opened[dbName] = db
	return db, nil
}

func (f *storageFactory) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, db := range f.opened {
		db.Close()
		delete(f.opened, name)
	}
}

type storageType struct {
	db *bolt.DB
}

func idKey(id irows.ID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// orderKey biases the sign bit so that negative orders sort before positive
func orderKey(order int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(int64(order))^(1<<63))
	return k
}

func parentIdxKey(row irows.Row) []byte {
	k := make([]byte, 0, 24)
	k = append(k, idKey(row.Parent)...)
	k = append(k, orderKey(row.Order)...)
	k = append(k, idKey(row.ID)...)
	return k
}

func typeIdxKey(row irows.Row) []byte {
	k := make([]byte, 0, 16)
	k = append(k, idKey(row.Type)...)
	k = append(k, idKey(row.ID)...)
	return k
}

func encodeRow(row irows.Row) []byte {
	v := make([]byte, 24, 24+len(row.Value))
	binary.BigEndian.PutUint64(v[0:], uint64(row.Parent))
	binary.BigEndian.PutUint64(v[8:], uint64(row.Type))
	binary.BigEndian.PutUint64(v[16:], uint64(int64(row.Order))^(1<<63))
	return append(v, row.Value...)
}

func decodeRow(id irows.ID, v []byte) irows.Row {
	return irows.Row{
		ID:     id,
		Parent: irows.ID(binary.BigEndian.Uint64(v[0:])),
		Type:   irows.ID(binary.BigEndian.Uint64(v[8:])),
		Order:  int(int64(binary.BigEndian.Uint64(v[16:]) ^ (1 << 63))),
		Value:  string(v[24:]),
	}
}

func (s *storageType) Get(id irows.ID) (row irows.Row, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(rowsBucketName)).Get(idKey(id))
		if v == nil {
			return nil
		}
		ok = true
		row = decodeRow(id, v)
		return nil
	})
	return row, ok, err
}

func (s *storageType) ReadChildren(ctx context.Context, parent, typePointer irows.ID, cb irows.ReadCallback) error {
	return s.db.View(func(tx *bolt.Tx) error {
		rows := tx.Bucket([]byte(rowsBucketName))
		c := tx.Bucket([]byte(parentBucketName)).Cursor()
		prefix := idKey(parent)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			id := irows.ID(binary.BigEndian.Uint64(k[16:]))
			v := rows.Get(k[16:24])
			if v == nil {
				continue
			}
			row := decodeRow(id, v)
			if !typePointer.IsNull() && row.Type != typePointer {
				continue
			}
			if err := cb(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *storageType) ReadByType(ctx context.Context, typePointer irows.ID, cb irows.ReadCallback) error {
	return s.db.View(func(tx *bolt.Tx) error {
		rows := tx.Bucket([]byte(rowsBucketName))
		c := tx.Bucket([]byte(typeBucketName)).Cursor()
		prefix := idKey(typePointer)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			id := irows.ID(binary.BigEndian.Uint64(k[8:]))
			v := rows.Get(k[8:16])
			if v == nil {
				continue
			}
			if err := cb(decodeRow(id, v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *storageType) ReadAll(ctx context.Context, cb irows.ReadCallback) error {
	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(rowsBucketName)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := cb(decodeRow(irows.ID(binary.BigEndian.Uint64(k)), v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *storageType) ReadJoined(ctx context.Context, q irows.JoinQuery, cb irows.JoinedCallback) error {
	return irows.ScanJoined(ctx, s, q, cb)
}

func (s *storageType) Insert(parent irows.ID, order int, typePointer irows.ID, value string) (id irows.ID, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(metaBucketName))
		last := irows.NullID
		if v := meta.Get([]byte(lastIDKey)); v != nil {
			last = irows.ID(binary.BigEndian.Uint64(v))
		}
		id = last + 1
		if err := meta.Put([]byte(lastIDKey), idKey(id)); err != nil {
			return err
		}
		return putRow(tx, irows.Row{ID: id, Parent: parent, Type: typePointer, Order: order, Value: value})
	})
	return id, err
}

func (s *storageType) InsertExact(row irows.Row) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(rowsBucketName)).Get(idKey(row.ID)) != nil {
			return irows.ErrRowExists
		}
		meta := tx.Bucket([]byte(metaBucketName))
		last := irows.NullID
		if v := meta.Get([]byte(lastIDKey)); v != nil {
			last = irows.ID(binary.BigEndian.Uint64(v))
		}
		if row.ID > last {
			if err := meta.Put([]byte(lastIDKey), idKey(row.ID)); err != nil {
				return err
			}
		}
		return putRow(tx, row)
	})
}

func putRow(tx *bolt.Tx, row irows.Row) error {
	if err := tx.Bucket([]byte(rowsBucketName)).Put(idKey(row.ID), encodeRow(row)); err != nil {
		return err
	}
	if err := tx.Bucket([]byte(parentBucketName)).Put(parentIdxKey(row), nil); err != nil {
		return err
	}
	return tx.Bucket([]byte(typeBucketName)).Put(typeIdxKey(row), nil)
}

func dropRowIdx(tx *bolt.Tx, row irows.Row) error {
	if err := tx.Bucket([]byte(parentBucketName)).Delete(parentIdxKey(row)); err != nil {
		return err
	}
	return tx.Bucket([]byte(typeBucketName)).Delete(typeIdxKey(row))
}

func (s *storageType) UpdateValue(id irows.ID, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		rows := tx.Bucket([]byte(rowsBucketName))
		v := rows.Get(idKey(id))
		if v == nil {
			return irows.ErrRowNotFound
		}
		row := decodeRow(id, v)
		row.Value = value
		return rows.Put(idKey(id), encodeRow(row))
	})
}

func (s *storageType) Move(id irows.ID, parent irows.ID, order int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		rows := tx.Bucket([]byte(rowsBucketName))
		v := rows.Get(idKey(id))
		if v == nil {
			return irows.ErrRowNotFound
		}
		row := decodeRow(id, v)
		if err := dropRowIdx(tx, row); err != nil {
			return err
		}
		row.Parent = parent
		row.Order = order
		return putRow(tx, row)
	})
}

func (s *storageType) Delete(id irows.ID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return deleteRow(tx, id)
	})
}

func deleteRow(tx *bolt.Tx, id irows.ID) error {
	rows := tx.Bucket([]byte(rowsBucketName))
	v := rows.Get(idKey(id))
	if v == nil {
		return nil
	}
	row := decodeRow(id, v)
	if err := dropRowIdx(tx, row); err != nil {
		return err
	}
	return rows.Delete(idKey(id))
}

func (s *storageType) DeleteChildren(parent irows.ID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(parentBucketName)).Cursor()
		prefix := idKey(parent)
		var ids []irows.ID
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			ids = append(ids, irows.ID(binary.BigEndian.Uint64(k[16:])))
		}
		for _, id := range ids {
			if err := deleteRow(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
