package engine

import (
	"context"
	"time"
)

// Engine drives a single download to completion through the external aria2
// engine, either by spawning the binary or by talking to a running daemon.
type Engine interface {
	Download(ctx context.Context, target Target, onStatus func(Status)) error
}

// Status is a point-in-time snapshot of a download as reported by aria2.
// Total is zero while the engine has not discovered the final size yet
// (magnet metadata phase, chunked HTTP).
type Status struct {
	GID         string
	Completed   uint64
	Total       uint64
	Connections int
	Seeders     int
	Speed       uint64
	UploadSpeed uint64
	ETA         time.Duration
}

// Percent returns the completion percentage, or zero when the total size is
// not known yet.
func (s Status) Percent() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Completed) * 100 / float64(s.Total)
}
