package local

import (
	"testing"
	"time"
)

func TestParseStatusLine(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		wantOK        bool
		wantGID       string
		wantCompleted uint64
		wantTotal     uint64
		wantSpeed     uint64
		wantConns     int
		wantSeeders   int
		wantETA       time.Duration
	}{
		{
			name:          "active download",
			line:          "[#2089b0 400.0KiB/32.0MiB(1%) CN:1 DL:128.0KiB ETA:4m51s]",
			wantOK:        true,
			wantGID:       "2089b0",
			wantCompleted: 409600,
			wantTotal:     33554432,
			wantSpeed:     131072,
			wantConns:     1,
			wantETA:       4*time.Minute + 51*time.Second,
		},
		{
			name:          "seeding line with upload fields",
			line:          "[#2089b0 32.0MiB/32.0MiB(100%) CN:0 SD:4 UL:12KiB]",
			wantOK:        true,
			wantGID:       "2089b0",
			wantCompleted: 33554432,
			wantTotal:     33554432,
			wantSeeders:   4,
		},
		{
			name:          "metadata phase without percent",
			line:          "[#f00d42 128.0KiB/0B CN:8 DL:0B]",
			wantOK:        true,
			wantGID:       "f00d42",
			wantCompleted: 131072,
			wantTotal:     0,
			wantConns:     8,
		},
		{
			name:   "notice line is not a status line",
			line:   "09/01 12:00:00 [NOTICE] Download complete: /data/downloads/file.iso",
			wantOK: false,
		},
		{
			name:   "blank line",
			line:   "",
			wantOK: false,
		},
		{
			name:   "plain progress text without brackets",
			line:   "FILE: /data/downloads/file.iso",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := ParseStatusLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseStatusLine() ok = %v, want %v", ok, tt.wantOK)
			}

			if !tt.wantOK {
				return
			}

			if st.GID != tt.wantGID {
				t.Errorf("GID = %q, want %q", st.GID, tt.wantGID)
			}

			if st.Completed != tt.wantCompleted {
				t.Errorf("Completed = %d, want %d", st.Completed, tt.wantCompleted)
			}

			if st.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", st.Total, tt.wantTotal)
			}

			if st.Speed != tt.wantSpeed {
				t.Errorf("Speed = %d, want %d", st.Speed, tt.wantSpeed)
			}

			if st.Connections != tt.wantConns {
				t.Errorf("Connections = %d, want %d", st.Connections, tt.wantConns)
			}

			if st.Seeders != tt.wantSeeders {
				t.Errorf("Seeders = %d, want %d", st.Seeders, tt.wantSeeders)
			}

			if st.ETA != tt.wantETA {
				t.Errorf("ETA = %v, want %v", st.ETA, tt.wantETA)
			}
		})
	}
}
