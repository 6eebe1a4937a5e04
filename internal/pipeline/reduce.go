package pipeline

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/apitypes/pkg/types"
)

// Reduce folds per-endpoint results into run statistics. It fails when the
// results do not cover every spec index in [0, total) exactly once.
func Reduce(total int, results []types.GenerationResult) (*types.GenerationStatistics, error) {
	seen := roaring.New()
	for _, r := range results {
		if r.Index < 0 || r.Index >= total {
			return nil, fmt.Errorf("result for %q has index %d outside [0, %d)", r.Name, r.Index, total)
		}
		if !seen.CheckedAdd(uint32(r.Index)) {
			return nil, fmt.Errorf("endpoint #%d (%s) reported more than once", r.Index+1, r.Name)
		}
	}
	if missing := uint64(total) - seen.GetCardinality(); missing > 0 {
		all := roaring.New()
		all.AddRange(0, uint64(total))
		all.AndNot(seen)
		return nil, fmt.Errorf("%d endpoint(s) produced no result (first missing: #%d)", missing, all.Minimum()+1)
	}

	sorted := make([]types.GenerationResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	stats := &types.GenerationStatistics{
		Total:   total,
		Errors:  []string{},
		Results: sorted,
	}
	for _, r := range sorted {
		if r.Success {
			stats.Successful++
			continue
		}
		stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %s", r.Name, r.Error))
	}
	stats.Failed = stats.Total - stats.Successful
	return stats, nil
}
