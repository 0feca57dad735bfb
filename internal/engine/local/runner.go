package local

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/hdiniz/ariactl/internal/engine"
	"github.com/hdiniz/ariactl/internal/logctx"
	"golang.org/x/sync/errgroup"
)

const maxLineSize = 1024 * 1024

// Runner is the subprocess engine: it spawns aria2c for every download and
// scans its merged stdout/stderr stream for status lines.
type Runner struct {
	binPath string
	opts    Options
}

func NewRunner(binPath string, opts Options) *Runner {
	return &Runner{binPath: binPath, opts: opts}
}

// Download runs aria2c to completion for the given target. Status snapshots
// parsed from the console output are delivered to onStatus in order; every
// raw line is also forwarded to the debug logger.
func (r *Runner) Download(ctx context.Context, target engine.Target, onStatus func(engine.Status)) error {
	logger := logctx.LoggerFromContext(ctx)

	bin, err := exec.LookPath(r.binPath)
	if err != nil {
		return &engine.BinaryNotFoundError{Path: r.binPath, Err: err}
	}

	args := BuildArgs(r.opts, target)

	logger.Debug("starting aria2c", "bin", bin, "args", strings.Join(args, " "))

	pr, pw := io.Pipe()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()

		return fmt.Errorf("failed to start aria2c: %w", err)
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		// Closing the read side on early scanner exit keeps aria2c from
		// blocking on a full pipe.
		defer pr.Close()

		return r.scanOutput(ctx, pr, onStatus)
	})

	waitErr := cmd.Wait()
	pw.Close()

	if scanErr := g.Wait(); scanErr != nil {
		logger.Warn("failed to read aria2c output", "err", scanErr)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &engine.ExitError{Code: exitErr.ExitCode(), Err: waitErr}
		}

		return fmt.Errorf("aria2c failed: %w", waitErr)
	}

	return nil
}

func (r *Runner) scanOutput(ctx context.Context, out io.Reader, onStatus func(engine.Status)) error {
	logger := logctx.LoggerFromContext(ctx)

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		logger.Debug("aria2c output", "line", line)

		if st, ok := ParseStatusLine(line); ok && onStatus != nil {
			onStatus(st)
		}
	}

	return scanner.Err()
}
