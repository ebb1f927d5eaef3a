package resolve_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reclaim/internal/catalog"
	"reclaim/internal/dedupe"
	"reclaim/internal/fileutil"
	"reclaim/internal/notifications"
	"reclaim/internal/resolve"
)

type fakeVerifier struct {
	fn func(paths []string) bool
}

func (f fakeVerifier) FramesMatch(_ context.Context, paths []string) bool {
	if f.fn == nil {
		return true
	}
	return f.fn(paths)
}

type recordingNotifier struct {
	merges []notifications.Merge
}

func (n *recordingNotifier) NotifyMerge(_ context.Context, merge notifications.Merge) error {
	n.merges = append(n.merges, merge)
	return nil
}

type scriptedDecider struct {
	confirm bool
	model   string
}

func (d scriptedDecider) ConfirmDelete(resolve.Candidate) (bool, error) {
	return d.confirm, nil
}

func (d scriptedDecider) ChooseModel([]string) (string, error) {
	if d.model == "" {
		return "", resolve.ErrOperatorUnavailable
	}
	return d.model, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedMember(t *testing.T, dir, subdir, name string, size int64, model, hash string) catalog.Record {
	t.Helper()
	parent := filepath.Join(dir, subdir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, name), []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}
	return catalog.Record{
		SourceModel:    model,
		Basename:       name,
		ParentDir:      parent,
		SizeBytes:      size,
		PerceptualHash: hash,
	}
}

func newResolver(t *testing.T, opts resolve.Options) *resolve.Resolver {
	t.Helper()
	if opts.Log == nil {
		opts.Log = testLogger()
	}
	if opts.Verifier == nil {
		opts.Verifier = fakeVerifier{}
	}
	if opts.Notifier == nil {
		opts.Notifier = &recordingNotifier{}
	}
	if opts.Decider == nil {
		opts.Decider = scriptedDecider{confirm: true}
	}
	if opts.Remover == nil {
		opts.Remover = resolve.NewFileRemover(testLogger(), 2, time.Millisecond)
	}
	resolver, err := resolve.New(opts)
	if err != nil {
		t.Fatalf("resolve.New: %v", err)
	}
	return resolver
}

func TestRunAutomaticDeletesMatchingLosers(t *testing.T) {
	dir := t.TempDir()
	keeper := seedMember(t, dir, "media", "big.mp4", 300, "cam-a", "aaaa")
	loser1 := seedMember(t, dir, "media", "mid.mp4", 200, "cam-a", "aaaa")
	loser2 := seedMember(t, dir, "media", "small.mp4", 100, "cam-a", "aaaa")

	notifier := &recordingNotifier{}
	resolver := newResolver(t, resolve.Options{
		Mode:     resolve.ModeAutomatic,
		Notifier: notifier,
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeper, loser1, loser2}},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.FilesRemoved != 2 {
		t.Fatalf("expected 2 removals, got %d", summary.FilesRemoved)
	}
	if summary.BytesReclaimed != 300 {
		t.Fatalf("expected 300 bytes reclaimed, got %d", summary.BytesReclaimed)
	}
	if summary.GroupsResolved != 1 || summary.GroupsSkipped != 0 {
		t.Fatalf("unexpected group counts: %+v", summary)
	}
	if !fileutil.Exists(keeper.Path()) {
		t.Fatal("keeper was deleted")
	}
	if fileutil.Exists(loser1.Path()) || fileutil.Exists(loser2.Path()) {
		t.Fatal("losers survived an automatic run")
	}
	if len(notifier.merges) != 2 {
		t.Fatalf("expected 2 merge notifications, got %d", len(notifier.merges))
	}
	if notifier.merges[0].KeeperPath != keeper.Path() {
		t.Fatalf("unexpected keeper in notification: %+v", notifier.merges[0])
	}
}

func TestRunAutomaticSkipsGroupOnFailedPrecheck(t *testing.T) {
	dir := t.TempDir()
	a := seedMember(t, dir, "media", "a.mp4", 300, "cam-a", "aaaa")
	b := seedMember(t, dir, "media", "b.mp4", 200, "cam-a", "aaaa")

	resolver := newResolver(t, resolve.Options{
		Mode:     resolve.ModeAutomatic,
		Verifier: fakeVerifier{fn: func([]string) bool { return false }},
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{a, b}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesRemoved != 0 {
		t.Fatalf("automatic mode deleted despite failed pre-check: %+v", summary)
	}
	if summary.GroupsSkipped != 1 || summary.GroupsResolved != 0 {
		t.Fatalf("unexpected group counts: %+v", summary)
	}
	if !fileutil.Exists(a.Path()) || !fileutil.Exists(b.Path()) {
		t.Fatal("files removed from a skipped group")
	}
}

func TestRunAutomaticKeepsUnmatchedPair(t *testing.T) {
	dir := t.TempDir()
	keeper := seedMember(t, dir, "media", "big.mp4", 300, "cam-a", "aaaa")
	matched := seedMember(t, dir, "media", "same.mp4", 200, "cam-a", "aaaa")
	unmatched := seedMember(t, dir, "media", "odd.mp4", 100, "cam-a", "aaaa")

	// The group-wide pre-check passes, the pairwise check for odd.mp4 fails.
	verifier := fakeVerifier{fn: func(paths []string) bool {
		for _, path := range paths {
			if strings.HasSuffix(path, "odd.mp4") && len(paths) == 2 {
				return false
			}
		}
		return true
	}}

	resolver := newResolver(t, resolve.Options{
		Mode:     resolve.ModeAutomatic,
		Verifier: verifier,
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeper, matched, unmatched}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesRemoved != 1 {
		t.Fatalf("expected 1 removal, got %d", summary.FilesRemoved)
	}
	if !fileutil.Exists(unmatched.Path()) {
		t.Fatal("unmatched file deleted in automatic mode")
	}
	if fileutil.Exists(matched.Path()) {
		t.Fatal("matched loser survived")
	}
}

func TestRunInteractiveHonorsDecline(t *testing.T) {
	dir := t.TempDir()
	keeper := seedMember(t, dir, "media", "big.mp4", 300, "cam-a", "aaaa")
	loser := seedMember(t, dir, "media", "small.mp4", 100, "cam-a", "aaaa")

	resolver := newResolver(t, resolve.Options{
		Mode:    resolve.ModeInteractive,
		Decider: scriptedDecider{confirm: false},
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeper, loser}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesRemoved != 0 {
		t.Fatal("declined candidate was deleted")
	}
	if !fileutil.Exists(loser.Path()) {
		t.Fatal("loser removed despite decline")
	}
}

func TestRunInteractiveDeletesEvenWithoutMatch(t *testing.T) {
	dir := t.TempDir()
	keeper := seedMember(t, dir, "media", "big.mp4", 300, "cam-a", "aaaa")
	loser := seedMember(t, dir, "media", "small.mp4", 100, "cam-a", "aaaa")

	// Interactive mode defers to the operator even when frames differ.
	resolver := newResolver(t, resolve.Options{
		Mode:     resolve.ModeInteractive,
		Verifier: fakeVerifier{fn: func([]string) bool { return false }},
		Decider:  scriptedDecider{confirm: true},
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeper, loser}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesRemoved != 1 {
		t.Fatalf("expected operator-confirmed deletion, got %+v", summary)
	}
}

func TestRunMultiModelDeletesOtherModels(t *testing.T) {
	dir := t.TempDir()
	keeperB := seedMember(t, dir, "media", "b-big.mp4", 400, "cam-b", "aaaa")
	smallB := seedMember(t, dir, "media", "b-small.mp4", 100, "cam-b", "aaaa")
	bigA := seedMember(t, dir, "media", "a-big.mp4", 300, "cam-a", "aaaa")

	notifier := &recordingNotifier{}
	resolver := newResolver(t, resolve.Options{
		Mode:     resolve.ModeInteractive,
		Notifier: notifier,
		Decider:  scriptedDecider{confirm: true, model: "cam-b"},
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeperB, smallB, bigA}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesRemoved != 1 {
		t.Fatalf("expected only the other model removed, got %+v", summary)
	}
	if fileutil.Exists(bigA.Path()) {
		t.Fatal("cam-a member survived after choosing cam-b")
	}
	if !fileutil.Exists(keeperB.Path()) || !fileutil.Exists(smallB.Path()) {
		t.Fatal("chosen-model member was deleted")
	}
	// One report per model's largest member before the choice, then one for
	// the removed loser.
	if len(notifier.merges) != 3 {
		t.Fatalf("expected 3 merge notifications, got %d", len(notifier.merges))
	}
	reported := map[string]bool{}
	for _, merge := range notifier.merges {
		if merge.KeeperPath != keeperB.Path() {
			t.Fatalf("notification keeper = %q, want %q", merge.KeeperPath, keeperB.Path())
		}
		reported[merge.LoserPath] = true
	}
	if !reported[keeperB.Path()] || !reported[bigA.Path()] {
		t.Fatalf("per-model reports missing from notifications: %v", notifier.merges)
	}
}

func TestRunAutomaticMultiModelUsesOperatorChoice(t *testing.T) {
	dir := t.TempDir()
	keeperB := seedMember(t, dir, "media", "b-big.mp4", 400, "cam-b", "aaaa")
	bigA := seedMember(t, dir, "media", "a-big.mp4", 300, "cam-a", "aaaa")

	// Automatic mode still defers the model choice to the operator; only the
	// per-file confirmation is replaced by the match rule.
	resolver := newResolver(t, resolve.Options{
		Mode:    resolve.ModeAutomatic,
		Decider: scriptedDecider{model: "cam-b"},
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeperB, bigA}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.GroupsResolved != 1 || summary.GroupsSkipped != 0 {
		t.Fatalf("auto mode must resolve the group via the chosen model: %+v", summary)
	}
	if summary.FilesRemoved != 1 {
		t.Fatalf("expected the other model's file removed, got %+v", summary)
	}
	if fileutil.Exists(bigA.Path()) {
		t.Fatal("cam-a member survived after choosing cam-b")
	}
	if !fileutil.Exists(keeperB.Path()) {
		t.Fatal("chosen-model member was deleted")
	}
}

func TestRunMultiModelHeadlessSkipsGroup(t *testing.T) {
	dir := t.TempDir()
	a := seedMember(t, dir, "media", "a.mp4", 300, "cam-a", "aaaa")
	b := seedMember(t, dir, "media", "b.mp4", 200, "cam-b", "aaaa")

	resolver := newResolver(t, resolve.Options{
		Mode:    resolve.ModeAutomatic,
		Decider: resolve.HeadlessDecider{},
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{a, b}},
	})
	if err != nil {
		t.Fatalf("headless multi-model group must skip, not fail: %v", err)
	}

	if summary.FilesRemoved != 0 || summary.GroupsSkipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !fileutil.Exists(a.Path()) || !fileutil.Exists(b.Path()) {
		t.Fatal("headless run deleted files")
	}
}

func TestRunCountsManualInterventions(t *testing.T) {
	dir := t.TempDir()
	keeper := seedMember(t, dir, "media", "big.mp4", 300, "cam-a", "aaaa")
	loser := seedMember(t, dir, "media", "small.mp4", 100, "cam-a", "aaaa")
	// Swap the loser for an unremovable non-empty directory.
	if err := os.Remove(loser.Path()); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(loser.Path(), "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	resolver := newResolver(t, resolve.Options{Mode: resolve.ModeAutomatic})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeper, loser}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.ManualInterventions != 1 {
		t.Fatalf("expected 1 manual intervention, got %+v", summary)
	}
	if summary.FilesRemoved != 0 {
		t.Fatalf("stuck file counted as removed: %+v", summary)
	}
}

func TestRunDryRunRemoverKeepsEverything(t *testing.T) {
	dir := t.TempDir()
	keeper := seedMember(t, dir, "media", "big.mp4", 300, "cam-a", "aaaa")
	loser := seedMember(t, dir, "media", "small.mp4", 100, "cam-a", "aaaa")

	resolver := newResolver(t, resolve.Options{
		Mode:    resolve.ModeAutomatic,
		Remover: resolve.NewDryRunRemover(testLogger()),
	})

	summary, err := resolver.Run(context.Background(), []dedupe.Group{
		{Hash: "aaaa", Members: []catalog.Record{keeper, loser}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if summary.FilesRemoved != 1 {
		t.Fatalf("dry run should still count decisions: %+v", summary)
	}
	if !fileutil.Exists(loser.Path()) {
		t.Fatal("dry run deleted a file")
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := newResolver(t, resolve.Options{Mode: resolve.ModeAutomatic})
	_, err := resolver.Run(ctx, []dedupe.Group{{Hash: "aaaa"}})
	if err == nil {
		t.Fatal("expected context error")
	}
}
