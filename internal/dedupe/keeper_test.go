package dedupe_test

import (
	"testing"

	"reclaim/internal/catalog"
	"reclaim/internal/dedupe"
)

func record(name, parent string, size int64, model string) catalog.Record {
	return catalog.Record{
		SourceModel: model,
		Basename:    name,
		ParentDir:   parent,
		SizeBytes:   size,
	}
}

func TestRankBySizeDescendingStable(t *testing.T) {
	members := []catalog.Record{
		record("a.mp4", "/media", 100, "cam"),
		record("b.mp4", "/media", 300, "cam"),
		record("c.mp4", "/media", 100, "cam"),
	}

	ranked := dedupe.RankBySize(members)
	if ranked[0].Basename != "b.mp4" {
		t.Fatalf("largest first, got %s", ranked[0].Basename)
	}
	if ranked[1].Basename != "a.mp4" || ranked[2].Basename != "c.mp4" {
		t.Fatal("equal sizes must keep encounter order")
	}
	if members[0].Basename != "a.mp4" {
		t.Fatal("input slice mutated")
	}
}

func TestSplitPremiumPreservesOrder(t *testing.T) {
	members := []catalog.Record{
		record("a.mp4", "/media/premium", 100, "cam"),
		record("b.mp4", "/media", 200, "cam"),
		record("c.mp4", "/media/premium", 50, "cam"),
	}

	premium, nonPremium := dedupe.SplitPremium(members)
	if len(premium) != 2 || len(nonPremium) != 1 {
		t.Fatalf("unexpected partition sizes: %d premium, %d non", len(premium), len(nonPremium))
	}
	if premium[0].Basename != "a.mp4" || premium[1].Basename != "c.mp4" {
		t.Fatal("premium order not preserved")
	}
}

func TestSelectKeeperPrefersLargest(t *testing.T) {
	members := []catalog.Record{
		record("small.mp4", "/media", 10, "cam"),
		record("large.mp4", "/media", 500, "cam"),
		record("mid.mp4", "/media", 100, "cam"),
	}

	keeper, ok := dedupe.SelectKeeper(members)
	if !ok || keeper.Basename != "large.mp4" {
		t.Fatalf("expected large.mp4, got %s (ok=%v)", keeper.Basename, ok)
	}
}

func TestSelectKeeperPremiumBreaksExactTies(t *testing.T) {
	// Scenario: two 500MB copies, one premium, plus a small straggler.
	const halfGiB = 500 * 1024 * 1024
	members := []catalog.Record{
		record("copy.mp4", "/media", halfGiB, "cam"),
		record("copy.mp4", "/media/premium", halfGiB, "cam"),
		record("thumb.mp4", "/media", 10*1024*1024, "cam"),
	}

	keeper, ok := dedupe.SelectKeeper(members)
	if !ok {
		t.Fatal("expected keeper")
	}
	if !keeper.Premium() {
		t.Fatalf("expected premium copy to win the tie, got %s", keeper.Path())
	}
}

func TestSelectKeeperEqualNonPremiumKeepsFirst(t *testing.T) {
	members := []catalog.Record{
		record("first.mp4", "/media", 100, "cam"),
		record("second.mp4", "/media", 100, "cam"),
	}

	keeper, _ := dedupe.SelectKeeper(members)
	if keeper.Basename != "first.mp4" {
		t.Fatalf("expected first encounter to win, got %s", keeper.Basename)
	}
}

func TestSelectKeeperEmptyGroup(t *testing.T) {
	if _, ok := dedupe.SelectKeeper(nil); ok {
		t.Fatal("expected no keeper for empty group")
	}
}

func TestSingleModel(t *testing.T) {
	same := []catalog.Record{
		record("a.mp4", "/media", 1, "cam-a"),
		record("b.mp4", "/media", 2, "cam-a"),
	}
	if !dedupe.SingleModel(same) {
		t.Fatal("expected single-model group")
	}

	mixed := append(same, record("c.mp4", "/media", 3, "cam-b"))
	if dedupe.SingleModel(mixed) {
		t.Fatal("expected multi-model group")
	}
}

func TestModelsEncounterOrder(t *testing.T) {
	members := []catalog.Record{
		record("a.mp4", "/media", 1, "cam-b"),
		record("b.mp4", "/media", 2, "cam-a"),
		record("c.mp4", "/media", 3, "cam-b"),
	}

	models := dedupe.Models(members)
	if len(models) != 2 || models[0] != "cam-b" || models[1] != "cam-a" {
		t.Fatalf("unexpected models: %v", models)
	}
}

func TestLargestForModel(t *testing.T) {
	members := []catalog.Record{
		record("a.mp4", "/media", 100, "cam-a"),
		record("b.mp4", "/media", 900, "cam-b"),
		record("c.mp4", "/media", 400, "cam-a"),
	}

	largest, ok := dedupe.LargestForModel(members, "cam-a")
	if !ok || largest.Basename != "c.mp4" {
		t.Fatalf("expected c.mp4, got %s (ok=%v)", largest.Basename, ok)
	}
	if _, ok := dedupe.LargestForModel(members, "cam-z"); ok {
		t.Fatal("expected no match for absent model")
	}
}

func TestPremiumFirstOrdering(t *testing.T) {
	members := []catalog.Record{
		record("big.mp4", "/media", 900, "cam"),
		record("small-premium.mp4", "/media/premium", 10, "cam"),
		record("mid.mp4", "/media", 500, "cam"),
	}

	ordered := dedupe.PremiumFirst(members)
	if ordered[0].Basename != "small-premium.mp4" {
		t.Fatalf("premium should lead, got %s", ordered[0].Basename)
	}
	if ordered[1].Basename != "big.mp4" || ordered[2].Basename != "mid.mp4" {
		t.Fatal("non-premium tail should be size-ranked")
	}
}
