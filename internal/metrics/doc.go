// Package metrics provides Prometheus metrics for monitoring the tracker.
//
// Key metrics:
//   - Cycle outcomes and durations
//   - Fetch latency against the market API
//   - Size and average price of the latest batch
//   - Last successful cycle and circuit breaker state
package metrics
