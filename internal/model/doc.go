// Package model defines shared data types used across the tracker.
//
// Conventions:
//   - Prices, market caps and volumes: float64 USD as reported by the market-data API
//   - Optional numeric fields: pointers (nil = omitted or null upstream)
//   - Cycle IDs: uuid.UUID, one per scheduler cycle
package model
