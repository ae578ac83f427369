package repository

import (
	"database/sql"
	"fmt"

	"github.com/akarakai/imgpdf/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
)

type Database interface {
	GetExportRepo() ExportRepo
	Close() error
}

type Sqlite3Database struct {
	db         *sql.DB
	ExportRepo ExportRepo
}

func NewSqlite3Database(dbPath string) (*Sqlite3Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		logger.Log.Errorw("could not connect to the database", "err", err)
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		logger.Log.Errorw("there was a problem when pinging to the database", "err", err)
		return nil, err
	}

	if err := loadTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Sqlite3Database{
		db:         db,
		ExportRepo: &ExportRepoSqlite3{db: db},
	}, nil
}

func (s *Sqlite3Database) Close() error {
	return s.db.Close()
}

func (s *Sqlite3Database) GetExportRepo() ExportRepo {
	if s.ExportRepo == nil {
		logger.Log.Panicln("export repo not initialized")
	}
	return s.ExportRepo
}

func loadTables(db *sql.DB) error {
	// one row per finished export, the image list itself is never stored
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		file_name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		page_count INTEGER NOT NULL,
		byte_size INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("could not create exports table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at);`)
	return err
}
