package repository

import (
	"database/sql"

	"github.com/akarakai/imgpdf/pkg/logger"
	"github.com/akarakai/imgpdf/pkg/model"
)

type ExportRepo interface {
	SaveExport(export *model.Export) error
	FindRecentExports(limit int) ([]model.Export, error)
	FindExportsOfSession(sessionID string) ([]model.Export, error)
}

type ExportRepoSqlite3 struct {
	db *sql.DB
}

// SaveExport inserts the export and sets its ID.
func (repo *ExportRepoSqlite3) SaveExport(export *model.Export) error {
	res, err := repo.db.Exec(`
		INSERT INTO exports (session_id, source, file_name, location, page_count, byte_size, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		export.SessionID,
		export.Source,
		export.FileName,
		export.Location,
		export.PageCount,
		export.ByteSize,
		string(export.Outcome),
		export.CreatedAt,
	)
	if err != nil {
		logger.Log.Errorw("error when saving export", "file_name", export.FileName, "err", err)
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	export.ID = id
	logger.Log.Debugw("export saved in repo", "id", id, "file_name", export.FileName)
	return nil
}

func (repo *ExportRepoSqlite3) FindRecentExports(limit int) ([]model.Export, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := repo.db.Query(`
		SELECT id, session_id, source, file_name, location, page_count, byte_size, outcome, created_at
		FROM exports
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		logger.Log.Errorw("error finding recent exports", "err", err)
		return nil, err
	}
	defer rows.Close()
	return scanExports(rows)
}

func (repo *ExportRepoSqlite3) FindExportsOfSession(sessionID string) ([]model.Export, error) {
	rows, err := repo.db.Query(`
		SELECT id, session_id, source, file_name, location, page_count, byte_size, outcome, created_at
		FROM exports
		WHERE session_id = ?
		ORDER BY id`, sessionID)
	if err != nil {
		logger.Log.Errorw("error finding exports of session", "session_id", sessionID, "err", err)
		return nil, err
	}
	defer rows.Close()
	return scanExports(rows)
}

func scanExports(rows *sql.Rows) ([]model.Export, error) {
	exports := []model.Export{}
	for rows.Next() {
		var e model.Export
		var outcome string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Source, &e.FileName, &e.Location,
			&e.PageCount, &e.ByteSize, &outcome, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Outcome = model.Outcome(outcome)
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
