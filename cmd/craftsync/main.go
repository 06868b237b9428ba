package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JaimeStill/craftsync/internal/config"
	"github.com/JaimeStill/craftsync/internal/posts"
	"github.com/JaimeStill/craftsync/internal/syncer"
	"github.com/JaimeStill/craftsync/pkg/logging"
)

const usage = "usage: craftsync [-draft] [-config path] [-env name] <partial-title>\n       craftsync -history [-config path] [-env name] <slug>"

var errJournalDisabled = errors.New("journal is disabled; set journal.enabled = true")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("craftsync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		draft      = fs.Bool("draft", false, "Write a draft copy instead of publishing")
		configPath = fs.String("config", config.BaseConfigFile, "Configuration file")
		env        = fs.String("env", "", "Configuration overlay name (default $"+config.EnvCraftsyncEnv+")")
		history    = fs.Bool("history", false, "List journaled runs for a slug instead of syncing")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	target := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if target == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath, *env)
	if err != nil {
		fmt.Fprintf(stderr, "craftsync: load configuration: %v\n", err)
		return 1
	}
	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(stderr, "craftsync: invalid configuration: %v\n", err)
		return 1
	}

	logOut := stderr
	if cfg.Logging.Output == logging.OutputStdout {
		logOut = stdout
	}
	logger := logging.NewWithWriter(&cfg.Logging, logOut)

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("runtime init failed", "error", err)
		return 1
	}
	defer rt.Close()

	if *history {
		if err := printHistory(ctx, rt, target, stdout); err != nil {
			logger.Error("history failed", "error", err)
			return 1
		}
		return 0
	}

	mode := posts.ModePublished
	if *draft {
		mode = posts.ModeDraft
	}

	result, err := NewModules(rt, cfg).Syncer.Run(ctx, syncer.Request{Title: target, Mode: mode})
	if err != nil {
		logger.Error("sync failed", "title", target, "mode", mode, "error", err)
		return 1
	}

	fmt.Fprintln(stdout, result.Summary())
	return 0
}

func printHistory(ctx context.Context, rt *Runtime, slug string, w io.Writer) error {
	if rt.Journal == nil {
		return errJournalDisabled
	}
	entries, err := rt.Journal.ListBySlug(ctx, slug, 0)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "no runs recorded for %q\n", slug)
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-7s %-9s %s  %s\n",
			e.SyncedAt.Format("2006-01-02 15:04:05"), e.Action, e.Mode, e.PostID, e.DocumentTitle)
	}
	return printSnapshots(ctx, rt, slug, w)
}

// printSnapshots lists the stored snapshot files for slug, one per mode.
func printSnapshots(ctx context.Context, rt *Runtime, slug string, w io.Writer) error {
	if rt.Snapshots == nil {
		return nil
	}
	for _, mode := range []posts.Mode{posts.ModePublished, posts.ModeDraft} {
		key := syncer.SnapshotKey(mode, slug)
		ok, err := rt.Snapshots.Validate(ctx, key)
		if err != nil {
			return fmt.Errorf("check snapshot %s: %w", key, err)
		}
		if !ok {
			continue
		}
		p, err := rt.Snapshots.Path(ctx, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "snapshot %-9s %s\n", mode, p)
	}
	return nil
}

// newRuntime is replaced in tests.
var newRuntime func(context.Context, *config.Config, *slog.Logger) (*Runtime, error) = NewRuntime
