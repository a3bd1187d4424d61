package model

import (
	"time"

	"github.com/google/uuid"
)

// AssetRecord is one asset row from a market snapshot.
type AssetRecord struct {
	Name              string   // Display name (e.g., "Bitcoin")
	Symbol            string   // Upper-cased ticker symbol (e.g., "BTC")
	PriceUSD          float64  // Current price
	MarketCapUSD      float64  // Market capitalization
	Volume24hUSD      float64  // Total 24h trading volume
	PriceChange24hPct *float64 // 24h price change in percent, nil if not reported
}

// HasChange reports whether the 24h change was reported.
func (r AssetRecord) HasChange() bool {
	return r.PriceChange24hPct != nil
}

// Change returns the 24h change, or 0 if it was not reported.
func (r AssetRecord) Change() float64 {
	if r.PriceChange24hPct == nil {
		return 0
	}
	return *r.PriceChange24hPct
}

// Batch is the ordered set of records fetched in one cycle.
// Order follows the API (market cap descending by contract).
type Batch []AssetRecord

// Analysis holds the statistics derived from a single Batch.
type Analysis struct {
	Top5         []AssetRecord // Largest market caps, at most 5
	AveragePrice float64       // Unweighted mean of PriceUSD
	MaxChange    *AssetRecord  // Largest 24h change, nil if no record reported one
	MinChange    *AssetRecord  // Smallest 24h change, nil if no record reported one
}

// Snapshot is everything a sink persists for one cycle.
type Snapshot struct {
	CycleID   uuid.UUID
	FetchedAt time.Time
	Batch     Batch
	Analysis  Analysis
}

// Float64 returns a pointer to v. Used for optional numeric fields.
func Float64(v float64) *float64 {
	return &v
}
