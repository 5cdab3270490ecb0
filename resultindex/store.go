// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultindex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MemStore is an in-memory Store for tests and one-shot runs.
type MemStore struct {
	Entries map[string]float64
}

func (s *MemStore) Load() (map[string]float64, error) {
	out := make(map[string]float64, len(s.Entries))
	for k, v := range s.Entries {
		out[k] = v
	}
	return out, nil
}

func (s *MemStore) Save(entries map[string]float64) error {
	s.Entries = make(map[string]float64, len(entries))
	for k, v := range entries {
		s.Entries[k] = v
	}
	return nil
}

// A FileStore persists the mapping as an indented JSON object. Save
// writes to a temporary file in the same directory and renames it into
// place, so a crash never corrupts the previous mapping.
type FileStore struct {
	Path string
}

func (s *FileStore) Load() (map[string]float64, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, err
	}
	var entries map[string]float64
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}
	return entries, nil
}

func (s *FileStore) Save(entries map[string]float64) error {
	data, err := json.MarshalIndent(entries, "", "\t")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// A SQLStore persists the mapping in a single-table SQL database,
// e.g. sqlite for a results repository shared between tools. The whole
// table is still read once at start and replaced once at the end; SQL
// buys durable single-file storage, not incremental updates.
type SQLStore struct {
	DB    *sql.DB
	Table string
}

// OpenSQL opens (creating if needed) the cache table in the database
// named by driver and dsn.
func OpenSQL(driver, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value REAL NOT NULL)", table)); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLStore{DB: db, Table: table}, nil
}

func (s *SQLStore) Load() (map[string]float64, error) {
	rows, err := s.DB.Query(fmt.Sprintf("SELECT key, value FROM %s", s.Table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make(map[string]float64)
	for rows.Next() {
		var k string
		var v float64
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		entries[k] = v
	}
	return entries, rows.Err()
}

func (s *SQLStore) Save(entries map[string]float64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", s.Table)); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?)", s.Table))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for k, v := range entries {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}
