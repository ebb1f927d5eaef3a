package dedupe

import (
	"math"
	"sort"

	"reclaim/internal/catalog"
	"reclaim/internal/fileutil"
)

// minGroupMembers is the smallest group worth resolving: a single copy has no
// duplicates to remove.
const minGroupMembers = 2

// Group is a curated duplicate group ready for resolution.
type Group struct {
	Hash    string
	Members []catalog.Record
}

// AggregateSize returns the summed size of the group's members.
func (g Group) AggregateSize() int64 {
	return aggregateSize(g.Members)
}

// CurateOptions holds the optional aggregate thresholds applied during
// curation. Zero values disable the corresponding filter.
type CurateOptions struct {
	MinAggregateBytes   int64
	MinAggregateSeconds int64
}

// BuildGroups partitions records into exact-hash buckets, skipping denylisted
// hashes. Encounter order is preserved within each bucket.
func BuildGroups(records []catalog.Record, denylist Denylist) map[string][]catalog.Record {
	groups := make(map[string][]catalog.Record)
	for _, record := range records {
		if record.PerceptualHash == "" {
			continue
		}
		if denylist.Contains(record.PerceptualHash) {
			continue
		}
		groups[record.PerceptualHash] = append(groups[record.PerceptualHash], record)
	}
	return groups
}

// Curate filters groups down to those worth resolving: at least two members
// whose files still exist on disk, meeting the optional aggregate size and
// duration thresholds. Existence filtering runs before the aggregate filters
// so vanished files never count toward the sums.
func Curate(groups map[string][]catalog.Record, opts CurateOptions) map[string][]catalog.Record {
	curated := make(map[string][]catalog.Record, len(groups))
	for hash, members := range groups {
		if len(members) < minGroupMembers {
			continue
		}

		present := make([]catalog.Record, 0, len(members))
		for _, member := range members {
			if fileutil.Exists(member.Path()) {
				present = append(present, member)
			}
		}
		if len(present) < minGroupMembers {
			continue
		}

		if opts.MinAggregateBytes > 0 && aggregateSize(present) < opts.MinAggregateBytes {
			continue
		}
		if opts.MinAggregateSeconds > 0 && aggregateDuration(present) < opts.MinAggregateSeconds {
			continue
		}

		curated[hash] = present
	}
	return curated
}

// SortedBySize converts curated buckets into a slice ordered by descending
// aggregate size, so the largest reclaim opportunities come first.
func SortedBySize(groups map[string][]catalog.Record) []Group {
	sorted := make([]Group, 0, len(groups))
	for hash, members := range groups {
		sorted = append(sorted, Group{Hash: hash, Members: members})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		left, right := sorted[i].AggregateSize(), sorted[j].AggregateSize()
		if left != right {
			return left > right
		}
		return sorted[i].Hash < sorted[j].Hash
	})
	return sorted
}

func aggregateSize(members []catalog.Record) int64 {
	var total int64
	for _, member := range members {
		total += member.SizeBytes
	}
	return total
}

// aggregateDuration sums the known durations, rounded to the nearest second.
// Records with no recorded duration contribute nothing, which biases groups
// of unanalyzed files toward exclusion when the duration filter is active.
func aggregateDuration(members []catalog.Record) int64 {
	var total float64
	for _, member := range members {
		if seconds, ok := member.Duration(); ok {
			total += seconds
		}
	}
	return int64(math.Round(total))
}
