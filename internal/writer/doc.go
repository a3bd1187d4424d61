// Package writer implements the sinks a cycle's snapshot is persisted to.
//
// Sinks:
//   - XLSX workbook (always on): "Live Crypto Data" and "Analysis" sheets
//   - PostgreSQL mirror (optional)
//   - SQLite mirror (optional)
//   - Redis mirror (optional)
//
// Every sink uses replace semantics: each Persist call removes the
// previous snapshot and writes the new one. No history is kept.
package writer
