// Package store persists DPR member records in SQLite and answers the ranked
// substring query, the aggregates and the import ledger.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// MembersTable is the relation replaced on every import.
const MembersTable = "anggota_dpr"

// ErrUnknownColumn is returned when an aggregate is requested on a column that is
// not an indexed grouping column.
var ErrUnknownColumn = errors.New("store: unknown column")

// Store wraps the SQLite handle.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `CREATE TABLE IF NOT EXISTS anggota_dpr (
		id                  INTEGER PRIMARY KEY,
		anggota             INTEGER UNIQUE NOT NULL,
		link_foto           TEXT NOT NULL DEFAULT '',
		link_profil         TEXT NOT NULL DEFAULT '',
		nama                TEXT NOT NULL,
		fraksi              TEXT NOT NULL DEFAULT '',
		dapil               TEXT NOT NULL DEFAULT '',
		akd_clean           TEXT NOT NULL DEFAULT '',
		ttl                 TEXT NOT NULL DEFAULT '',
		agama               TEXT NOT NULL DEFAULT '',
		pendidikan          TEXT NOT NULL DEFAULT '',
		pekerjaan           TEXT NOT NULL DEFAULT '',
		organisasi          TEXT NOT NULL DEFAULT '',
		kota_lahir          TEXT NOT NULL DEFAULT '',
		usia                INTEGER,
		pendidikan_terakhir TEXT NOT NULL DEFAULT '',
		is_kader            TEXT NOT NULL DEFAULT '',
		is_dewan            TEXT NOT NULL DEFAULT '',
		usia_kategori       TEXT NOT NULL DEFAULT '',
		rank_partai         TEXT NOT NULL DEFAULT '',
		partai              TEXT NOT NULL DEFAULT '',
		pendidikan_clean    TEXT NOT NULL DEFAULT '',
		organisasi_clean    TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_nama ON anggota_dpr(nama);
	CREATE INDEX IF NOT EXISTS idx_fraksi ON anggota_dpr(fraksi);
	CREATE INDEX IF NOT EXISTS idx_partai ON anggota_dpr(partai);
	CREATE INDEX IF NOT EXISTS idx_dapil ON anggota_dpr(dapil);
	CREATE INDEX IF NOT EXISTS idx_kota_lahir ON anggota_dpr(kota_lahir);
	CREATE INDEX IF NOT EXISTS idx_agama ON anggota_dpr(agama);
	CREATE TABLE IF NOT EXISTS import_runs (
		id            INTEGER PRIMARY KEY,
		source        TEXT NOT NULL,
		rows_read     INTEGER NOT NULL,
		rows_imported INTEGER NOT NULL,
		rows_dropped  INTEGER NOT NULL,
		status        TEXT NOT NULL,
		error         TEXT,
		started_at    INTEGER NOT NULL,
		finished_at   INTEGER NOT NULL
	)`

// Open opens (or creates) the SQLite database at path and ensures the member
// table, its secondary indexes and the import ledger exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// New wraps an already opened handle without touching the schema.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the SQLite connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string {
	return s.path
}
