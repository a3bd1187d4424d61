package analysis

import (
	"errors"
	"sort"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// DefaultTopN is the number of records kept in Analysis.Top5.
const DefaultTopN = 5

// ErrEmptyBatch is returned when Analyze is called with no records.
var ErrEmptyBatch = errors.New("analysis: empty batch")

// Analyze computes the statistics for batch. topN <= 0 uses DefaultTopN.
func Analyze(batch model.Batch, topN int) (model.Analysis, error) {
	if len(batch) == 0 {
		return model.Analysis{}, ErrEmptyBatch
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	maxChange, minChange := ChangeExtremes(batch)

	return model.Analysis{
		Top5:         TopByMarketCap(batch, topN),
		AveragePrice: AveragePrice(batch),
		MaxChange:    maxChange,
		MinChange:    minChange,
	}, nil
}

// TopByMarketCap returns the n records with the largest market cap,
// largest first. Equal caps keep their input order.
func TopByMarketCap(batch model.Batch, n int) []model.AssetRecord {
	sorted := make([]model.AssetRecord, len(batch))
	copy(sorted, batch)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MarketCapUSD > sorted[j].MarketCapUSD
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// AveragePrice returns the arithmetic mean of PriceUSD, or 0 for an empty batch.
func AveragePrice(batch model.Batch) float64 {
	if len(batch) == 0 {
		return 0
	}
	var sum float64
	for _, r := range batch {
		sum += r.PriceUSD
	}
	return sum / float64(len(batch))
}

// ChangeExtremes returns copies of the records with the largest and
// smallest 24h change. Records without a change are skipped.
func ChangeExtremes(batch model.Batch) (maxRec, minRec *model.AssetRecord) {
	for i := range batch {
		r := batch[i]
		if !r.HasChange() {
			continue
		}
		if maxRec == nil || r.Change() > maxRec.Change() {
			c := r
			maxRec = &c
		}
		if minRec == nil || r.Change() < minRec.Change() {
			c := r
			minRec = &c
		}
	}
	return maxRec, minRec
}
