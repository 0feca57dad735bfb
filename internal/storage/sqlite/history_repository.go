package sqlite

import (
	"database/sql"
	"time"

	"github.com/hdiniz/ariactl/internal/storage"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(dbConn *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: dbConn}
}

// TrackDownload inserts a new running download and returns its row id.
func (r *HistoryRepository) TrackDownload(target, kind string) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO downloads (target, kind, status, attempts, started_at) VALUES (?, ?, ?, 0, ?)`,
		target, kind, storage.StatusRunning, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// RecordAttempt bumps the attempt counter for a download.
func (r *HistoryRepository) RecordAttempt(id int64) error {
	_, err := r.db.Exec(`UPDATE downloads SET attempts = attempts + 1 WHERE id = ?`, id)

	return err
}

// MarkFinished records the terminal status for a download.
func (r *HistoryRepository) MarkFinished(id int64, status, errMsg string) error {
	_, err := r.db.Exec(
		`UPDATE downloads SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, errMsg, time.Now().UTC().Format(time.RFC3339), id,
	)

	return err
}

// GetHistory returns the most recent downloads, newest first.
func (r *HistoryRepository) GetHistory(limit int) ([]storage.Record, error) {
	rows, err := r.db.Query(
		`SELECT id, target, kind, status, attempts, started_at, finished_at, error
		 FROM downloads ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.Record

	for rows.Next() {
		var (
			record               storage.Record
			startedAt            string
			finishedAt, errorMsg sql.NullString
		)

		if err := rows.Scan(
			&record.ID, &record.Target, &record.Kind, &record.Status,
			&record.Attempts, &startedAt, &finishedAt, &errorMsg,
		); err != nil {
			return nil, err
		}

		record.StartedAt, _ = time.Parse(time.RFC3339, startedAt)

		if finishedAt.Valid {
			record.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt.String)
		}

		if errorMsg.Valid {
			record.Error = errorMsg.String
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
