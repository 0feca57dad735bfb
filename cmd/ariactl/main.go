package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hdiniz/ariactl/internal/config"
	"github.com/hdiniz/ariactl/internal/engine"
	"github.com/hdiniz/ariactl/internal/engine/local"
	"github.com/hdiniz/ariactl/internal/engine/rpc"
	"github.com/hdiniz/ariactl/internal/logctx"
	"github.com/hdiniz/ariactl/internal/notifier"
	"github.com/hdiniz/ariactl/internal/progress"
	"github.com/hdiniz/ariactl/internal/retry"
	"github.com/hdiniz/ariactl/internal/storage"
	"github.com/hdiniz/ariactl/internal/storage/sqlite"
	slogmulti "github.com/samber/slog-multi"
	"github.com/urfave/cli/v2"
)

const dirPerm = 0755

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		slog.Error("logger error", "err", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(cfg).RunContext(logctx.WithLogger(ctx, logger), os.Args); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(exitCode(err))
	}
}

func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:  "ariactl",
		Usage: "resilient front-end for the aria2c download engine",
		Commands: []*cli.Command{
			downloadCommand(cfg),
			historyCommand(cfg),
			initCommand(cfg),
		},
	}
}

func downloadCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "download",
		Aliases:   []string{"d"},
		Usage:     "download a magnet link, .torrent file or http(s) URL",
		ArgsUsage: "[target]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rpc",
				Usage: "drive a running aria2 daemon over JSON-RPC instead of spawning aria2c",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "download directory (overrides ARIACTL_DOWNLOAD_DIR)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "disable the progress bar",
			},
		},
		Action: func(c *cli.Context) error {
			return runDownload(c, cfg)
		},
	}
}

func historyCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recent downloads",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "max records to show"},
		},
		Action: func(c *cli.Context) error {
			return runHistory(c, cfg)
		},
	}
}

func initCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "generate the default aria2.conf if it doesn't exist",
		Action: func(c *cli.Context) error {
			created, err := local.EnsureConfig(cfg.ConfFile(), engineOptions(cfg))
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(c.App.Writer, "created default config at %s\n", cfg.ConfFile())
			} else {
				fmt.Fprintf(c.App.Writer, "config already exists at %s\n", cfg.ConfFile())
			}

			return nil
		},
	}
}

func runDownload(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context

	input := c.Args().First()
	if input == "" {
		var err error
		if input, err = promptTarget(); err != nil {
			return err
		}
	}

	target, err := engine.ClassifyTarget(input)
	if err != nil {
		return err
	}

	ctx = logctx.Append(ctx, "kind", string(target.Kind))
	logger := logctx.LoggerFromContext(ctx)

	if dir := c.String("dir"); dir != "" {
		cfg.DownloadDir = dir
	}

	if !c.Bool("rpc") {
		if err := os.MkdirAll(cfg.DownloadDir, dirPerm); err != nil {
			return fmt.Errorf("failed to create download directory: %w", err)
		}

		created, err := local.EnsureConfig(cfg.ConfFile(), engineOptions(cfg))
		if err != nil {
			return err
		}

		if created {
			logger.Info("created default aria2 config", "path", cfg.ConfFile())
		}
	}

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	repo := sqlite.NewHistoryRepository(db)

	recordID, err := repo.TrackDownload(target.Input, string(target.Kind))
	if err != nil {
		logger.Warn("failed to track download in history", "err", err)
	}

	var bar *progress.Bar

	onStatus := func(engine.Status) {}
	if !c.Bool("quiet") {
		bar = progress.NewBar(os.Stderr)
		onStatus = func(st engine.Status) {
			bar.Update(st.Completed, st.Total, st.Speed, st.ETA)
		}
	}

	useRPC := c.Bool("rpc")
	build := func(fallback bool) engine.Engine {
		return buildEngine(cfg, useRPC, fallback)
	}

	downloadErr := downloadWithRetries(ctx, cfg, build, target, onStatus, repo, recordID)

	if bar != nil {
		if downloadErr == nil {
			bar.Finish()
		} else {
			bar.Abort()
		}
	}

	status, errMsg := storage.StatusDone, ""
	if downloadErr != nil {
		status, errMsg = storage.StatusFailed, downloadErr.Error()
	}

	if err := repo.MarkFinished(recordID, status, errMsg); err != nil {
		logger.Warn("failed to update download history", "err", err)
	}

	notifyOutcome(ctx, cfg, target, downloadErr)

	if downloadErr != nil {
		return cli.Exit(fmt.Sprintf("download failed: %v", downloadErr), 2)
	}

	logger.Info("download completed", "target", target.Input)

	return nil
}

// engineBuilder yields the engine for one attempt; fallback selects the
// conservative option profile.
type engineBuilder func(fallback bool) engine.Engine

// downloadWithRetries runs the regular retry schedule and, when every
// scheduled attempt has failed on a retryable error, gives the conservative
// fallback profile one last shot.
func downloadWithRetries(
	ctx context.Context,
	cfg *config.Config,
	build engineBuilder,
	target engine.Target,
	onStatus func(engine.Status),
	repo storage.HistoryWriteRepository,
	recordID int64,
) error {
	logger := logctx.LoggerFromContext(ctx)

	policy := retry.Policy{
		MaxAttempts:  cfg.RetryCount,
		InitialDelay: cfg.RetryDelayBase,
		MaxDelay:     cfg.RetryDelayMax,
	}

	op := func(attempt uint) error {
		logger.Info("starting download attempt", "attempt", attempt, "max_attempts", cfg.RetryCount)

		if err := repo.RecordAttempt(recordID); err != nil {
			logger.Warn("failed to record attempt", "err", err)
		}

		if err := build(false).Download(ctx, target, onStatus); err != nil {
			if isPermanent(err) {
				return retry.Permanent(err)
			}

			return err
		}

		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("download attempt failed", "err", err, "retry_in", next.String())
	}

	err := retry.Do(ctx, policy, op, notify)
	if err == nil {
		return nil
	}

	if isPermanent(err) || ctx.Err() != nil {
		return err
	}

	logger.Warn("all attempts failed, applying fallback options", "err", err)

	if err := repo.RecordAttempt(recordID); err != nil {
		logger.Warn("failed to record attempt", "err", err)
	}

	return build(true).Download(ctx, target, onStatus)
}

// buildEngine picks the subprocess or RPC engine and applies the fallback
// profile to the local argument list.
func buildEngine(cfg *config.Config, useRPC, fallback bool) engine.Engine {
	if useRPC {
		return rpc.NewClient(cfg.RPC.URL, cfg.RPC.Secret, cfg.RPC.PollingInterval)
	}

	opts := engineOptions(cfg)
	if fallback {
		opts = opts.WithFallback()
	}

	return local.NewRunner(cfg.Aria2Path, opts)
}

func engineOptions(cfg *config.Config) local.Options {
	return local.Options{
		DownloadDir:     cfg.DownloadDir,
		MaxDownloadRate: cfg.MaxDownloadRate,
		MaxUploadRate:   cfg.MaxUploadRate,
		MaxConnsPerSrv:  cfg.MaxConnectionsPerSrv,
		Split:           cfg.Split,
		MinSplitSize:    cfg.MinSplitSize,
		ListenPort:      cfg.ListenPort,
		EnableDHT:       cfg.EnableDHT,
		EnablePEX:       cfg.EnablePEX,
		Trackers:        cfg.Trackers,
	}
}

func isPermanent(err error) bool {
	var invalidTarget *engine.InvalidTargetError

	var binNotFound *engine.BinaryNotFoundError

	return errors.As(err, &invalidTarget) || errors.As(err, &binNotFound)
}

func promptTarget() (string, error) {
	fmt.Fprintln(os.Stderr, "Paste magnet link, torrent URL, or local .torrent file path:")
	fmt.Fprint(os.Stderr, "> ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return "", &engine.InvalidTargetError{Input: input, Reason: "empty input"}
	}

	return input, nil
}

func runHistory(c *cli.Context, cfg *config.Config) error {
	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	records, err := sqlite.NewHistoryRepository(db).GetHistory(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(c.App.Writer, "no downloads recorded yet")

		return nil
	}

	for _, record := range records {
		when := record.StartedAt
		if !record.FinishedAt.IsZero() {
			when = record.FinishedAt
		}

		fmt.Fprintf(c.App.Writer, "%-7s %-8s attempts=%-2d %-14s %s\n",
			record.Status, record.Kind, record.Attempts, humanize.Time(when), record.Target)
	}

	return nil
}

func notifyOutcome(ctx context.Context, cfg *config.Config, target engine.Target, downloadErr error) {
	if cfg.DiscordWebhookURL == "" {
		return
	}

	logger := logctx.LoggerFromContext(ctx)

	notif := &notifier.DiscordNotifier{WebhookURL: cfg.DiscordWebhookURL}

	msg := "✅ Download finished: " + target.Input
	if downloadErr != nil {
		msg = "❌ Download failed: " + target.Input
	}

	if err := notif.Notify(ctx, msg); err != nil {
		logger.Error("failed to send notification", "err", err)
	}
}

func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := cfg.SlogLevel()

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	}

	closer := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = func() { f.Close() }
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

func exitCode(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return 1
}
