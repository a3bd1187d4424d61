// Package database provides connection pool management for the optional
// PostgreSQL mirror of the dashboard.
//
// The mirror holds only the latest snapshot (tables crypto_assets and
// crypto_analysis); it is rewritten every cycle alongside the workbook.
package database
