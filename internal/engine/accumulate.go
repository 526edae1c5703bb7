package engine

import (
	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// accumulator collects normalized records across pages and batches. SKUs are
// de-duplicated first-seen-wins, which also fixes the final ordering.
type accumulator struct {
	seen    map[string]struct{}
	records []domain.ProductRecord
	skipped int
	pages   int
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]struct{})}
}

func (a *accumulator) add(items []bestbuy.Item) {
	records, skipped := bestbuy.ToRecords(items)
	a.skipped += skipped

	for i := range records {
		if _, dup := a.seen[records[i].SKU]; dup {
			continue
		}
		a.seen[records[i].SKU] = struct{}{}
		a.records = append(a.records, records[i])
	}
}

func (a *accumulator) empty() bool {
	return len(a.records) == 0
}

// unmatched counts requested SKUs that no gathered record answered.
func (a *accumulator) unmatched(requested map[string]struct{}) int {
	unmatched := len(requested)
	for sku := range requested {
		if _, ok := a.seen[sku]; ok {
			unmatched--
		}
	}
	return unmatched
}

func (a *accumulator) result() *domain.QueryResult {
	return &domain.QueryResult{
		Records:        a.records,
		SkippedRecords: a.skipped,
		PagesFetched:   a.pages,
	}
}

func (a *accumulator) partial(info *domain.IncompleteInfo) *domain.QueryResult {
	result := a.result()
	result.Incomplete = info
	return result
}

func (a *accumulator) lookupPartial(
	requested map[string]struct{},
	info *domain.IncompleteInfo,
) *domain.QueryResult {
	result := a.partial(info)
	result.UnmatchedSKUs = a.unmatched(requested)
	return result
}
