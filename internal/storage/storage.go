package storage

import "time"

// Download status values as stored in the history table.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Record is one entry in the download history.
type Record struct {
	ID         int64
	Target     string
	Kind       string
	Status     string
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time // zero while the download is still running
	Error      string
}

// HistoryReadRepository lists past downloads.
type HistoryReadRepository interface {
	GetHistory(limit int) ([]Record, error)
}

// HistoryWriteRepository tracks the lifecycle of a download attempt chain.
type HistoryWriteRepository interface {
	TrackDownload(target, kind string) (int64, error)
	RecordAttempt(id int64) error
	MarkFinished(id int64, status, errMsg string) error
}
