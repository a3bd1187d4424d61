// Package analysis derives summary statistics from a market batch.
//
// Statistics:
//   - Top N assets by market cap (stable, ties keep input order)
//   - Unweighted mean price
//   - Largest and smallest 24h change (first occurrence wins ties)
//
// Records without a reported 24h change are not candidates for the
// largest/smallest change. When no record reports one, both are nil.
package analysis
