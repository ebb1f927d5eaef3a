package dedupe

import (
	"sort"

	"reclaim/internal/catalog"
)

// RankBySize orders records by descending size, preserving encounter order
// for equal sizes.
func RankBySize(members []catalog.Record) []catalog.Record {
	ranked := append([]catalog.Record(nil), members...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SizeBytes > ranked[j].SizeBytes
	})
	return ranked
}

// SplitPremium partitions records into premium and non-premium slices,
// preserving relative order within each partition.
func SplitPremium(members []catalog.Record) (premium, nonPremium []catalog.Record) {
	for _, member := range members {
		if member.Premium() {
			premium = append(premium, member)
		} else {
			nonPremium = append(nonPremium, member)
		}
	}
	return premium, nonPremium
}

// PremiumFirst ranks the group by size and returns premium records ahead of
// non-premium ones, the order the resolution driver walks candidates in.
func PremiumFirst(members []catalog.Record) []catalog.Record {
	premium, nonPremium := SplitPremium(RankBySize(members))
	return append(premium, nonPremium...)
}

// SelectKeeper picks the record to retain: the largest by size, with exact
// size ties broken in favor of a premium challenger over a non-premium
// incumbent. Equal-size non-premium ties keep the earlier record.
func SelectKeeper(members []catalog.Record) (catalog.Record, bool) {
	if len(members) == 0 {
		return catalog.Record{}, false
	}
	keeper := members[0]
	for _, challenger := range members[1:] {
		switch {
		case challenger.SizeBytes > keeper.SizeBytes:
			keeper = challenger
		case challenger.SizeBytes == keeper.SizeBytes && challenger.Premium() && !keeper.Premium():
			keeper = challenger
		}
	}
	return keeper, true
}

// SingleModel reports whether every member shares one source model value.
func SingleModel(members []catalog.Record) bool {
	if len(members) == 0 {
		return true
	}
	first := members[0].SourceModel
	for _, member := range members[1:] {
		if member.SourceModel != first {
			return false
		}
	}
	return true
}

// Models returns the distinct source models in encounter order.
func Models(members []catalog.Record) []string {
	seen := make(map[string]struct{}, len(members))
	models := make([]string, 0, len(members))
	for _, member := range members {
		if _, ok := seen[member.SourceModel]; ok {
			continue
		}
		seen[member.SourceModel] = struct{}{}
		models = append(models, member.SourceModel)
	}
	return models
}

// LargestForModel returns the biggest member carrying the given source model.
func LargestForModel(members []catalog.Record, model string) (catalog.Record, bool) {
	var largest catalog.Record
	found := false
	for _, member := range members {
		if member.SourceModel != model {
			continue
		}
		if !found || member.SizeBytes > largest.SizeBytes {
			largest = member
			found = true
		}
	}
	return largest, found
}
