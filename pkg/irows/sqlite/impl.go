/*
 * Copyright (c) 2024-present Attrio, Ltd.
 */

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/attrio/attrio/pkg/irows"
)

type ParamsType struct {
	// DBDir hosts one <name>.db file per storage
	DBDir string

	// MaxOpenConns bounds the shared pool; 0 keeps the database/sql default
	MaxOpenConns int
}

type storageFactory struct {
	params ParamsType

	mu     sync.Mutex
	opened map[string]*sql.DB
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
	if err := os.MkdirAll(f.params.DBDir, 0o755); err != nil {
		return err
	}
	db, err := f.open(dbName)
	if err != nil {
		return err
	}
	return initSchema(db)
}

func (f *storageFactory) open(dbName string) (*sql.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if db, ok := f.opened[dbName]; ok {
		return db, nil
	}
	db, err := sql.Open("sqlite", dbName)
	if err != nil {
		return nil, err
	}
	if f.params.MaxOpenConns > 0 {
		db.SetMaxOpenConns(f.params.MaxOpenConns)
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

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE rows (
			id     INTEGER PRIMARY KEY,
			parent INTEGER NOT NULL,
			type   INTEGER NOT NULL,
			ord    INTEGER NOT NULL,
			value  TEXT NOT NULL
		);
		CREATE INDEX idx_rows_parent ON rows (parent, ord);
		CREATE INDEX idx_rows_type ON rows (type);
	`)
	return err
}

type storageType struct {
	db *sql.DB
}

func (s *storageType) Get(id irows.ID) (row irows.Row, ok bool, err error) {
	err = s.db.QueryRow(`SELECT id, parent, type, ord, value FROM rows WHERE id = ?`, int64(id)).
		Scan(&row.ID, &row.Parent, &row.Type, &row.Order, &row.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return irows.Row{}, false, nil
	}
	if err != nil {
		return irows.Row{}, false, err
	}
	return row, true, nil
}

func (s *storageType) scan(ctx context.Context, query string, cb irows.ReadCallback, args ...any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var row irows.Row
		if err := rows.Scan(&row.ID, &row.Parent, &row.Type, &row.Order, &row.Value); err != nil {
			return err
		}
		if err := cb(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *storageType) ReadChildren(ctx context.Context, parent, typePointer irows.ID, cb irows.ReadCallback) error {
	if typePointer.IsNull() {
		return s.scan(ctx,
			`SELECT id, parent, type, ord, value FROM rows WHERE parent = ? ORDER BY ord, id`,
			cb, int64(parent))
	}
	return s.scan(ctx,
		`SELECT id, parent, type, ord, value FROM rows WHERE parent = ? AND type = ? ORDER BY ord, id`,
		cb, int64(parent), int64(typePointer))
}

func (s *storageType) ReadByType(ctx context.Context, typePointer irows.ID, cb irows.ReadCallback) error {
	return s.scan(ctx,
		`SELECT id, parent, type, ord, value FROM rows WHERE type = ? ORDER BY id`,
		cb, int64(typePointer))
}

func (s *storageType) ReadAll(ctx context.Context, cb irows.ReadCallback) error {
	return s.scan(ctx, `SELECT id, parent, type, ord, value FROM rows ORDER BY id`, cb)
}

// ReadJoined compiles the query to one LEFT JOIN per child type; the joined
// row is the first child at (parent = subject.id, type = child type).
func (s *storageType) ReadJoined(ctx context.Context, q irows.JoinQuery, cb irows.JoinedCallback) error {
	var b strings.Builder
	b.WriteString("SELECT s.id, s.parent, s.type, s.ord, s.value")
	for i := range q.ChildTypes {
		fmt.Fprintf(&b, ", c%d.id, c%d.value", i, i)
	}
	b.WriteString(" FROM rows s")
	args := []any{}
	for i, ct := range q.ChildTypes {
		fmt.Fprintf(&b,
			" LEFT JOIN rows c%d ON c%d.id = (SELECT c.id FROM rows c WHERE c.parent = s.id AND c.type = ? ORDER BY c.ord, c.id LIMIT 1)",
			i, i)
		args = append(args, int64(ct))
	}
	b.WriteString(" WHERE s.type = ? ORDER BY s.id")
	args = append(args, int64(q.SubjectType))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		jr := irows.JoinedRow{Children: make([]irows.JoinedChild, len(q.ChildTypes))}
		dest := []any{&jr.Subject.ID, &jr.Subject.Parent, &jr.Subject.Type, &jr.Subject.Order, &jr.Subject.Value}
		childIDs := make([]sql.NullInt64, len(q.ChildTypes))
		childValues := make([]sql.NullString, len(q.ChildTypes))
		for i := range q.ChildTypes {
			dest = append(dest, &childIDs[i], &childValues[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		for i, ct := range q.ChildTypes {
			if childIDs[i].Valid {
				jr.Children[i] = irows.JoinedChild{
					Row: irows.Row{
						ID:     irows.ID(childIDs[i].Int64),
						Parent: jr.Subject.ID,
						Type:   ct,
						Value:  childValues[i].String,
					},
					Ok: true,
				}
			}
		}
		if err := cb(jr); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *storageType) Insert(parent irows.ID, order int, typePointer irows.ID, value string) (irows.ID, error) {
	res, err := s.db.Exec(
		`INSERT INTO rows (id, parent, type, ord, value)
		 VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM rows), ?, ?, ?, ?)`,
		int64(parent), int64(typePointer), order, value)
	if err != nil {
		return irows.NullID, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return irows.NullID, err
	}
	return irows.ID(id), nil
}

func (s *storageType) InsertExact(row irows.Row) error {
	_, err := s.db.Exec(`INSERT INTO rows (id, parent, type, ord, value) VALUES (?, ?, ?, ?, ?)`,
		int64(row.ID), int64(row.Parent), int64(row.Type), row.Order, row.Value)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return irows.ErrRowExists
	}
	return err
}

func (s *storageType) UpdateValue(id irows.ID, value string) error {
	return s.exec1(`UPDATE rows SET value = ? WHERE id = ?`, value, int64(id))
}

func (s *storageType) Move(id irows.ID, parent irows.ID, order int) error {
	return s.exec1(`UPDATE rows SET parent = ?, ord = ? WHERE id = ?`, int64(parent), order, int64(id))
}

// exec1 runs an update which must touch exactly one row
func (s *storageType) exec1(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return irows.ErrRowNotFound
	}
	return nil
}

func (s *storageType) Delete(id irows.ID) error {
	_, err := s.db.Exec(`DELETE FROM rows WHERE id = ?`, int64(id))
	return err
}

func (s *storageType) DeleteChildren(parent irows.ID) error {
	_, err := s.db.Exec(`DELETE FROM rows WHERE parent = ?`, int64(parent))
	return err
}
