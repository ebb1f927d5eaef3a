package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"reclaim/internal/catalog"
	"reclaim/internal/config"
	"reclaim/internal/dedupe"
	"reclaim/internal/logging"
	"reclaim/internal/notifications"
	"reclaim/internal/resolve"
	"reclaim/internal/similarity"
	"reclaim/internal/textutil"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var autoFlag bool
	var dryRunFlag bool
	var quarantineFlag bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve duplicate groups by deleting redundant copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, ctx, resolveFlags{
				auto:       autoFlag,
				dryRun:     dryRunFlag,
				quarantine: quarantineFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&autoFlag, "auto", false, "Delete matching duplicates without prompting")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Log deletions without touching any file")
	cmd.Flags().BoolVar(&quarantineFlag, "quarantine", false, "Move duplicates into the quarantine directory instead of deleting")
	return cmd
}

type resolveFlags struct {
	auto       bool
	dryRun     bool
	quarantine bool
}

func runResolve(cmd *cobra.Command, ctx *commandContext, flags resolveFlags) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	// One resolution run at a time: two runs deleting from the same catalog
	// would race each other on the filesystem.
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "reclaim.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another reclaim run is already active (lock %s)", lock.Path())
	}
	defer lock.Unlock()

	out := cmd.OutOrStdout()
	groups, err := loadCuratedGroups(signalCtx, cfg, logger)
	if err != nil {
		return err
	}

	tty := isTerminal(os.Stdin)
	if !flags.auto && !tty {
		return fmt.Errorf("interactive resolution needs a terminal on stdin; use --auto for unattended runs")
	}

	mode := resolve.ModeInteractive
	if flags.auto {
		mode = resolve.ModeAutomatic
	}
	decider := buildDecider(cmd.InOrStdin(), out, tty)

	remover, removerLabel, err := buildRemover(cfg, logger, flags)
	if err != nil {
		return err
	}
	logger.Info("starting resolution run",
		slog.Int("groups", len(groups)),
		slog.Bool("interactive", mode == resolve.ModeInteractive),
		slog.String("removal", removerLabel))

	verifier := similarity.New(logger, similarity.Options{
		FFmpegBinary:      cfg.FFmpegBinary(),
		FFprobeBinary:     cfg.FFprobeBinary(),
		MSEImageThreshold: cfg.Similarity.MSEImageThreshold,
		MSEVideoThreshold: cfg.Similarity.MSEVideoThreshold,
	})

	resolver, err := resolve.New(resolve.Options{
		Log:      logger,
		Out:      out,
		Verifier: verifier,
		Notifier: notifications.NewService(cfg),
		Decider:  decider,
		Remover:  remover,
		Mode:     mode,
	})
	if err != nil {
		return err
	}

	// Free-space accounting uses the catalog's volume, which is where the
	// media library lives in the common layout.
	freeBefore, freeErr := freeSpace(filepath.Dir(cfg.Paths.CatalogPath))
	summary, runErr := resolver.Run(signalCtx, groups)
	printSummary(out, cfg, summary, freeBefore, freeErr == nil)
	if runErr != nil {
		return runErr
	}
	return nil
}

// loadCuratedGroups reads the catalog and reduces it to the sorted group list
// a run operates on. Catalog problems are fatal here, before anything is
// deleted; a missing denylist only logs a warning.
func loadCuratedGroups(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]dedupe.Group, error) {
	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	records, err := store.ReadHashedRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	logger.Info("catalog read", slog.Int("hashed_records", len(records)))

	denylist, err := dedupe.LoadDenylist(cfg.Paths.DenylistPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read denylist: %w", err)
		}
		logger.Warn("denylist file not found, continuing without one",
			slog.String("path", cfg.Paths.DenylistPath))
		denylist = dedupe.Denylist{}
	}

	grouped := dedupe.BuildGroups(records, denylist)
	curated := dedupe.Curate(grouped, dedupe.CurateOptions{
		MinAggregateBytes:   cfg.Curation.MinGroupBytes,
		MinAggregateSeconds: cfg.Curation.MinGroupSeconds,
	})
	logger.Info("groups curated",
		slog.Int("grouped", len(grouped)),
		slog.Int("curated", len(curated)))
	return dedupe.SortedBySize(curated), nil
}

// buildDecider picks the operator surface. Multi-model groups always route
// through ChooseModel, so an automatic run at a terminal still gets a
// prompt-capable decider; only genuinely headless runs get the refusing one,
// which makes the driver skip those groups.
func buildDecider(in io.Reader, out io.Writer, tty bool) resolve.Decider {
	if tty {
		return resolve.NewTerminalDecider(in, out)
	}
	return resolve.HeadlessDecider{}
}

func buildRemover(cfg *config.Config, logger *slog.Logger, flags resolveFlags) (resolve.Remover, string, error) {
	switch {
	case flags.dryRun:
		return resolve.NewDryRunRemover(logger), "dry-run", nil
	case flags.quarantine:
		if cfg.Paths.QuarantineDir == "" {
			return nil, "", fmt.Errorf("quarantine mode needs paths.quarantine_dir in the config")
		}
		return resolve.NewQuarantineRemover(cfg.Paths.QuarantineDir), "quarantine", nil
	default:
		backoff := time.Duration(cfg.Deletion.BackoffSeconds) * time.Second
		return resolve.NewFileRemover(logger, cfg.Deletion.MaxAttempts, backoff), "delete", nil
	}
}

func printSummary(out io.Writer, cfg *config.Config, summary resolve.Summary, freeBefore uint64, haveFree bool) {
	printer := message.NewPrinter(language.English)
	printer.Fprintf(out, "\nGroups: %d resolved, %d skipped (of %d)\n",
		summary.GroupsResolved, summary.GroupsSkipped, summary.Groups)
	printer.Fprintf(out, "Files removed: %d (%s)\n",
		summary.FilesRemoved, textutil.Size(summary.BytesReclaimed))
	if summary.ManualInterventions > 0 {
		printer.Fprintf(out, "Files needing manual intervention: %d\n", summary.ManualInterventions)
	}
	if summary.NotifyFailures > 0 {
		printer.Fprintf(out, "Merge notifications failed: %d\n", summary.NotifyFailures)
	}
	if haveFree {
		if freeAfter, err := freeSpace(filepath.Dir(cfg.Paths.CatalogPath)); err == nil && freeAfter >= freeBefore {
			printer.Fprintf(out, "Disk space freed: %s\n", textutil.Size(int64(freeAfter-freeBefore)))
		}
	}
}

func freeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
