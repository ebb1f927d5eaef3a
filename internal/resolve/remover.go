package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"reclaim/internal/fileutil"
)

// ErrManualIntervention marks a file that survived every removal attempt and
// needs operator attention.
var ErrManualIntervention = errors.New("delete failed, needs manual intervention")

// Remover disposes of a loser file. Removing a path that already vanished
// must succeed silently so interrupted runs can resume.
type Remover interface {
	Remove(ctx context.Context, path string) error
}

// FileRemover unlinks files, retrying transient lock and permission failures
// with exponential backoff. Once the attempt limit is reached the error
// wraps ErrManualIntervention instead of looping forever.
type FileRemover struct {
	log         *slog.Logger
	maxAttempts int
	backoff     time.Duration
}

// NewFileRemover builds a FileRemover with the given retry policy.
func NewFileRemover(logger *slog.Logger, maxAttempts int, backoff time.Duration) *FileRemover {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &FileRemover{log: logger, maxAttempts: maxAttempts, backoff: backoff}
}

func (r *FileRemover) Remove(ctx context.Context, path string) error {
	backoff := r.backoff
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			return nil
		}
		lastErr = err
		r.log.Warn("delete attempt failed",
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
		if attempt == r.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", ErrManualIntervention, path, r.maxAttempts, lastErr)
}

// QuarantineRemover moves losers into a quarantine directory instead of
// unlinking them, keeping a numeric suffix when basenames collide.
type QuarantineRemover struct {
	dir string
}

// NewQuarantineRemover builds a remover that relocates files into dir.
func NewQuarantineRemover(dir string) *QuarantineRemover {
	return &QuarantineRemover{dir: dir}
}

func (r *QuarantineRemover) Remove(_ context.Context, path string) error {
	destination := filepath.Join(r.dir, filepath.Base(path))
	for suffix := 1; fileutil.Exists(destination); suffix++ {
		ext := filepath.Ext(path)
		stem := filepath.Base(path)
		stem = stem[:len(stem)-len(ext)]
		destination = filepath.Join(r.dir, fmt.Sprintf("%s-%d%s", stem, suffix, ext))
	}
	return fileutil.MoveFile(path, destination)
}

// DryRunRemover records the decision without touching the filesystem.
type DryRunRemover struct {
	log *slog.Logger
}

// NewDryRunRemover builds a remover that only logs.
func NewDryRunRemover(logger *slog.Logger) *DryRunRemover {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunRemover{log: logger}
}

func (r *DryRunRemover) Remove(_ context.Context, path string) error {
	r.log.Info("dry run, keeping file", slog.String("path", path))
	return nil
}
