// Package api provides the market-data REST client.
//
// REST endpoint:
//   - Production: https://api.coingecko.com/api/v3
//
// The tracker uses a single endpoint, GET /coins/markets, with
// vs_currency, order, per_page and page query parameters. Responses are
// mapped into model.AssetRecord at this boundary; nullable upstream
// fields stay nullable.
package api
