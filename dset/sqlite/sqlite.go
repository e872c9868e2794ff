/*
 * sqlite.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

//Package sqlite stores dynamics datasets in a sqlite database, as an
//alternative to the flat compressed tables of the dset package. The table
//holds one row per (origin index, elapsed time, body), indexed by
//(origin_index, elapsed), so datasets can be queried in place rather than
//streamed. Appends go into a transaction that is committed on Flush;
//everything committed stays readable even if the producing process dies.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	dyn "github.com/malramsay64/godyn"
	_ "modernc.org/sqlite"
)

// schema.sql contains the SQL statements for creating the dynamics dataset
// schema: the per-body observation rows and a key/value metadata table.
//
//go:embed schema.sql
var schemaSQL string

// Store is a sqlite-backed dataset. It implements dyn.Sink.
type Store struct {
	*sql.DB
	tx     *sql.Tx
	path   string
	closed bool
}

// Open creates a dataset database at path. If a file already exists there
// it is renamed aside to path+".bak" rather than appended to: opening a
// Store always starts a fresh dataset.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("failed to back up previous dataset: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize dataset schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{DB: db, tx: tx, path: path}, nil
}

// SetMetadata records a key/value pair in the metadata table.
func (S *Store) SetMetadata(key, value string) error {
	if S.closed {
		return fmt.Errorf("dataset %s is closed", S.path)
	}
	_, err := S.tx.Exec(`INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

// Append inserts one observation, one row per body, into the current
// transaction. Rows become durable on the next Flush or Close.
func (S *Store) Append(o *dyn.Observation) error {
	if S.closed {
		return fmt.Errorf("dataset %s is closed", S.path)
	}
	query := `
		INSERT INTO dynamics (origin_index, elapsed, body, displacement, rotation)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, d := range o.Displacement {
		var rot any
		if o.Rotation != nil {
			rot = o.Rotation[i]
		}
		if _, err := S.tx.Exec(query, o.OriginIndex, o.Time, i, d, rot); err != nil {
			return fmt.Errorf("failed to insert observation row: %w", err)
		}
	}
	return nil
}

// Flush commits the current transaction, making all appended observations
// durable, and opens a new one.
func (S *Store) Flush() error {
	if S.closed {
		return fmt.Errorf("dataset %s is closed", S.path)
	}
	if err := S.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset rows: %w", err)
	}
	tx, err := S.DB.Begin()
	if err != nil {
		return err
	}
	S.tx = tx
	return nil
}

// Close commits any pending rows and closes the database. The Store can not
// be appended to after this call. Closing twice is harmless.
func (S *Store) Close() error {
	if S.closed {
		return nil
	}
	S.closed = true
	if err := S.tx.Commit(); err != nil {
		S.DB.Close()
		return fmt.Errorf("failed to commit dataset rows: %w", err)
	}
	return S.DB.Close()
}

// ByOrigin reassembles the observations recorded for the given origin
// index, in elapsed-time order. Only committed rows are visible.
func (S *Store) ByOrigin(index int) ([]*dyn.Observation, error) {
	query := `
		SELECT elapsed, body, displacement, rotation
		FROM dynamics
		WHERE origin_index = ?
		ORDER BY elapsed, id, body
	`
	rows, err := S.DB.Query(query, index)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer rows.Close()
	var ret []*dyn.Observation
	var curr *dyn.Observation
	for rows.Next() {
		var elapsed, body int
		var displacement float64
		var rotation sql.NullFloat64
		if err := rows.Scan(&elapsed, &body, &displacement, &rotation); err != nil {
			return nil, err
		}
		if curr == nil || body == 0 {
			curr = &dyn.Observation{OriginIndex: index, Time: elapsed}
			ret = append(ret, curr)
		}
		curr.Displacement = append(curr.Displacement, displacement)
		if rotation.Valid {
			curr.Rotation = append(curr.Rotation, rotation.Float64)
		}
	}
	return ret, rows.Err()
}

// Metadata returns the value stored for key, or the empty string when the
// key is absent.
func (S *Store) Metadata(key string) (string, error) {
	var value string
	err := S.DB.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
