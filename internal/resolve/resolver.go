package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"reclaim/internal/catalog"
	"reclaim/internal/dedupe"
	"reclaim/internal/notifications"
	"reclaim/internal/textutil"
)

// Mode selects how delete decisions are made.
type Mode int

const (
	// ModeInteractive prompts the operator for every delete candidate.
	ModeInteractive Mode = iota
	// ModeAutomatic deletes only when the similarity check passes, with no
	// per-file prompt.
	ModeAutomatic
)

// Verifier is the similarity check the driver consults before deleting.
type Verifier interface {
	FramesMatch(ctx context.Context, paths []string) bool
}

// Options configures a Resolver.
type Options struct {
	Log      *slog.Logger
	Out      io.Writer
	Verifier Verifier
	Notifier notifications.Service
	Decider  Decider
	Remover  Remover
	Mode     Mode
}

// Summary reports what a resolution run did.
type Summary struct {
	Groups              int
	GroupsResolved      int
	GroupsSkipped       int
	FilesRemoved        int
	BytesReclaimed      int64
	ManualInterventions int
	NotifyFailures      int
}

// Resolver processes curated duplicate groups one at a time.
type Resolver struct {
	log      *slog.Logger
	out      io.Writer
	verifier Verifier
	notifier notifications.Service
	decider  Decider
	remover  Remover
	mode     Mode
}

// New validates the options and builds a Resolver.
func New(opts Options) (*Resolver, error) {
	if opts.Verifier == nil {
		return nil, errors.New("resolve: verifier is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("resolve: notifier is required")
	}
	if opts.Decider == nil {
		return nil, errors.New("resolve: decider is required")
	}
	if opts.Remover == nil {
		return nil, errors.New("resolve: remover is required")
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Resolver{
		log:      log,
		out:      out,
		verifier: opts.Verifier,
		notifier: opts.Notifier,
		decider:  opts.Decider,
		remover:  opts.Remover,
		mode:     opts.Mode,
	}, nil
}

// Run processes every group to completion, in the order given. Groups come
// pre-sorted by descending aggregate size from dedupe.SortedBySize. The
// returned summary is valid even when an error cuts the run short.
func (r *Resolver) Run(ctx context.Context, groups []dedupe.Group) (Summary, error) {
	summary := Summary{Groups: len(groups)}
	fmt.Fprintf(r.out, "Number of groups: %d\n\n", len(groups))

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		fmt.Fprintf(r.out, "Group - phash: %s (summed file size: %s)\n",
			group.Hash, textutil.Size(group.AggregateSize()))
		if err := r.processGroup(ctx, group, &summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (r *Resolver) processGroup(ctx context.Context, group dedupe.Group, summary *Summary) error {
	ordered := dedupe.PremiumFirst(group.Members)

	if r.mode == ModeAutomatic {
		if !r.verifier.FramesMatch(ctx, recordPaths(ordered)) {
			r.log.Info("frames do not match, skipping group", slog.String("phash", group.Hash))
			fmt.Fprintf(r.out, "Frames do not match. Skipping group.\n\n")
			summary.GroupsSkipped++
			return nil
		}
	}

	keeper, ok := dedupe.SelectKeeper(group.Members)
	if !ok {
		summary.GroupsSkipped++
		return nil
	}

	var err error
	if dedupe.SingleModel(group.Members) {
		err = r.resolveSingleModel(ctx, group, ordered, keeper, summary)
	} else {
		err = r.resolveMultiModel(ctx, group, ordered, keeper, summary)
	}
	if errors.Is(err, errGroupSkipped) {
		return nil
	}
	if err != nil {
		return err
	}
	summary.GroupsResolved++
	return nil
}

// errGroupSkipped short-circuits a group without aborting the run.
var errGroupSkipped = errors.New("group skipped")

func (r *Resolver) resolveSingleModel(ctx context.Context, group dedupe.Group, ordered []catalog.Record, keeper catalog.Record, summary *Summary) error {
	losers := make([]catalog.Record, 0, len(ordered)-1)
	for _, member := range ordered {
		if member.Path() != keeper.Path() {
			losers = append(losers, member)
		}
	}

	for i, loser := range losers {
		match := r.verifier.FramesMatch(ctx, []string{loser.Path(), keeper.Path()})
		r.notifyMerge(ctx, keeper, loser, summary)
		r.printComparison(keeper, loser, match, i+1, len(losers))

		remove, err := r.decideRemoval(Candidate{
			Keeper:      keeper,
			Loser:       loser,
			FramesMatch: match,
			Index:       i + 1,
			Total:       len(losers),
		})
		if err != nil {
			return err
		}
		if remove {
			r.removeLoser(ctx, loser, summary)
		}
	}
	return nil
}

func (r *Resolver) resolveMultiModel(ctx context.Context, group dedupe.Group, ordered []catalog.Record, keeper catalog.Record, summary *Summary) error {
	// The pre-check runs in every mode here: a multi-model group always needs
	// an operator, so the warning must reach them before the choice.
	if !r.verifier.FramesMatch(ctx, recordPaths(ordered)) {
		r.log.Warn("frames do not match across group", slog.String("phash", group.Hash))
		fmt.Fprintf(r.out, "Frames do not match for all files in group. Be wary!\n\n")
	}

	models := dedupe.Models(group.Members)
	for _, model := range models {
		largest, ok := dedupe.LargestForModel(group.Members, model)
		if !ok {
			continue
		}
		match := r.verifier.FramesMatch(ctx, []string{largest.Path(), keeper.Path()})
		r.notifyMerge(ctx, keeper, largest, summary)
		fmt.Fprintf(r.out, "Frames Match: %v\n", match)
		fmt.Fprintf(r.out, "File Model: %s\n", model)
		fmt.Fprintf(r.out, "Biggest File Path: %s\n", largest.Path())
		fmt.Fprintf(r.out, "File Size: %s\n", textutil.Size(largest.SizeBytes))
		fmt.Fprintf(r.out, "File Duration: %s\n\n", recordDuration(largest))
	}

	chosen, err := r.decider.ChooseModel(models)
	if err != nil {
		if errors.Is(err, ErrOperatorUnavailable) {
			r.log.Warn("group needs an operator to choose a model, skipping",
				slog.String("phash", group.Hash))
			summary.GroupsSkipped++
			return errGroupSkipped
		}
		return err
	}

	losers := make([]catalog.Record, 0, len(group.Members))
	for _, member := range group.Members {
		if member.SourceModel != chosen {
			losers = append(losers, member)
		}
	}

	for i, loser := range losers {
		match := r.verifier.FramesMatch(ctx, []string{loser.Path(), keeper.Path()})
		r.notifyMerge(ctx, keeper, loser, summary)
		r.printComparison(keeper, loser, match, i+1, len(losers))

		remove, err := r.decideRemoval(Candidate{
			Keeper:      keeper,
			Loser:       loser,
			FramesMatch: match,
			Index:       i + 1,
			Total:       len(losers),
		})
		if err != nil {
			return err
		}
		if remove {
			r.removeLoser(ctx, loser, summary)
		}
	}
	return nil
}

// decideRemoval applies the mode's deletion rule: automatic deletes only on a
// similarity match, interactive defers to the operator.
func (r *Resolver) decideRemoval(candidate Candidate) (bool, error) {
	if r.mode == ModeAutomatic {
		return candidate.FramesMatch, nil
	}
	return r.decider.ConfirmDelete(candidate)
}

func (r *Resolver) removeLoser(ctx context.Context, loser catalog.Record, summary *Summary) {
	err := r.remover.Remove(ctx, loser.Path())
	switch {
	case err == nil:
		r.log.Info("removed duplicate", slog.String("path", loser.Path()),
			slog.String("size", textutil.Size(loser.SizeBytes)))
		summary.FilesRemoved++
		summary.BytesReclaimed += loser.SizeBytes
	case errors.Is(err, ErrManualIntervention):
		r.log.Error("file needs manual intervention", slog.String("path", loser.Path()), slog.Any("error", err))
		fmt.Fprintf(r.out, "Could not delete %s, manual intervention required.\n", loser.Path())
		summary.ManualInterventions++
	default:
		r.log.Error("remove failed", slog.String("path", loser.Path()), slog.Any("error", err))
	}
}

// notifyMerge is best-effort: failures are logged and counted, never fatal.
func (r *Resolver) notifyMerge(ctx context.Context, keeper, loser catalog.Record, summary *Summary) {
	err := r.notifier.NotifyMerge(ctx, notifications.Merge{
		KeeperPath:     keeper.Path(),
		LoserPath:      loser.Path(),
		PerceptualHash: loser.PerceptualHash,
	})
	if err != nil {
		r.log.Warn("merge notification failed", slog.Any("error", err))
		summary.NotifyFailures++
	}
}

func (r *Resolver) printComparison(keeper, loser catalog.Record, match bool, index, total int) {
	fmt.Fprintf(r.out, "Biggest file:\n")
	fmt.Fprintf(r.out, "File Model: %s\n", keeper.SourceModel)
	fmt.Fprintf(r.out, "File Path: %s\n", keeper.Path())
	fmt.Fprintf(r.out, "File Size: %s\n", textutil.Size(keeper.SizeBytes))
	fmt.Fprintf(r.out, "File Duration: %s\n\n", recordDuration(keeper))

	fmt.Fprintf(r.out, "Ready to delete:\n")
	fmt.Fprintf(r.out, "Frames Match: %v\n", match)
	fmt.Fprintf(r.out, "File Model: %s\n", loser.SourceModel)
	fmt.Fprintf(r.out, "File Path: %s\n", loser.Path())
	fmt.Fprintf(r.out, "File Size: %s\n", textutil.Size(loser.SizeBytes))
	fmt.Fprintf(r.out, "File Duration: %s\n", recordDuration(loser))
	if total > 1 {
		fmt.Fprintf(r.out, "File [%d of %d]\n", index, total)
	}
	fmt.Fprintln(r.out)
}

func recordDuration(record catalog.Record) string {
	if seconds, ok := record.Duration(); ok {
		return textutil.Duration(seconds)
	}
	return textutil.Duration(-1)
}

func recordPaths(records []catalog.Record) []string {
	paths := make([]string, len(records))
	for i, record := range records {
		paths[i] = record.Path()
	}
	return paths
}
