package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestClassifyTarget(t *testing.T) {
	torrentPath := filepath.Join(t.TempDir(), "ubuntu.torrent")
	if err := os.WriteFile(torrentPath, []byte("d8:announce0:e"), 0644); err != nil {
		t.Fatalf("failed to write torrent fixture: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		wantKind TargetKind
		wantErr  bool
	}{
		{
			name:     "magnet link",
			input:    "magnet:?xt=urn:btih:deadbeef",
			wantKind: KindMagnet,
		},
		{
			name:     "http url",
			input:    "http://example.com/file.iso",
			wantKind: KindURL,
		},
		{
			name:     "https url",
			input:    "https://example.com/file.iso",
			wantKind: KindURL,
		},
		{
			name:     "existing torrent file",
			input:    torrentPath,
			wantKind: KindTorrentFile,
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  magnet:?xt=urn:btih:deadbeef \n",
			wantKind: KindMagnet,
		},
		{
			name:    "missing file",
			input:   filepath.Join(t.TempDir(), "nope.torrent"),
			wantErr: true,
		},
		{
			name:    "directory",
			input:   t.TempDir(),
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ClassifyTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ClassifyTarget() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var invalidErr *InvalidTargetError
				if !errors.As(err, &invalidErr) {
					t.Errorf("expected InvalidTargetError, got %T", err)
				}

				return
			}

			if target.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", target.Kind, tt.wantKind)
			}
		})
	}
}
