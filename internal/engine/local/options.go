package local

import (
	"fmt"
	"strings"

	"github.com/hdiniz/ariactl/internal/engine"
)

// Options holds the aria2 invocation settings. The same values feed both the
// generated configuration file and the per-run argument list, so a run
// behaves the same whether or not the config file was picked up.
type Options struct {
	DownloadDir     string
	MaxDownloadRate string
	MaxUploadRate   string
	MaxConnsPerSrv  int
	Split           int
	MinSplitSize    string
	ListenPort      int
	EnableDHT       bool
	EnablePEX       bool
	Trackers        []string

	// Fallback switches the run to the conservative option profile used for
	// the last-resort attempt after the regular retries are exhausted.
	Fallback bool
}

// WithFallback returns a copy of the options with the fallback profile on.
func (o Options) WithFallback() Options {
	o.Fallback = true

	return o
}

// BuildArgs constructs the aria2c argument list for a target. The list is
// deterministic for a given Options/Target pair.
func BuildArgs(opts Options, target engine.Target) []string {
	args := []string{
		fmt.Sprintf("--enable-dht=%t", opts.EnableDHT),
		fmt.Sprintf("--enable-peer-exchange=%t", opts.EnablePEX),
		"--max-overall-download-limit=" + opts.MaxDownloadRate,
		"--max-overall-upload-limit=" + opts.MaxUploadRate,
		fmt.Sprintf("--max-connection-per-server=%d", opts.MaxConnsPerSrv),
		"--continue=true",
		"--auto-file-renaming=true",
		"--summary-interval=1",
		"--dir=" + opts.DownloadDir,
		fmt.Sprintf("--listen-port=%d", opts.ListenPort),
	}

	if len(opts.Trackers) > 0 {
		args = append(args, "--bt-tracker="+strings.Join(opts.Trackers, ","))
	}

	if opts.Fallback {
		args = append(args,
			"--bt-enable-lpd=true",
			"--bt-detach-seed-only=true",
			"--timeout=30",
			"--connect-timeout=20",
			"--retry-wait=10",
		)
	}

	if target.Kind == engine.KindTorrentFile {
		return append(args, "-T", target.Input)
	}

	return append(args, target.Input)
}
