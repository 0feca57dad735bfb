package local

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	confPerm = 0644
	dirPerm  = 0755
)

// EnsureConfig writes a default aria2.conf at path when none exists and
// reports whether it created one. An existing file is never touched, so
// user edits survive.
func EnsureConfig(path string, opts Options) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(ConfContent(opts)), confPerm); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// ConfContent renders the default configuration as aria2 key=value lines.
func ConfContent(opts Options) string {
	lines := []string{
		"dir=" + filepath.ToSlash(opts.DownloadDir),
		"continue=true",
		"check-integrity=true",
		"max-overall-download-limit=" + opts.MaxDownloadRate,
		"max-overall-upload-limit=" + opts.MaxUploadRate,
		fmt.Sprintf("max-connection-per-server=%d", opts.MaxConnsPerSrv),
		"min-split-size=" + opts.MinSplitSize,
		fmt.Sprintf("split=%d", opts.Split),
		"enable-rpc=false",
		"summary-interval=1",
		"console-log-level=notice",
		"file-allocation=prealloc",
		fmt.Sprintf("listen-port=%d", opts.ListenPort),
		fmt.Sprintf("enable-dht=%t", opts.EnableDHT),
		fmt.Sprintf("enable-peer-exchange=%t", opts.EnablePEX),
		"bt-enable-lpd=true",
		"bt-tracker-connect-timeout=10",
		"bt-tracker-timeout=15",
		"bt-timeout=60",
		"bt-request-peer-speed-limit=512K",
		"bt-max-peers=55",
	}

	if len(opts.Trackers) > 0 {
		lines = append(lines, "bt-tracker="+strings.Join(opts.Trackers, ","))
	}

	return strings.Join(lines, "\n") + "\n"
}
