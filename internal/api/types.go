package api

// CoinMarket is one element of the GET /coins/markets response array.
//
// Numeric fields are pointers because the API reports null for coins it
// has incomplete data on.
type CoinMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            *int     `json:"market_cap_rank"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	LastUpdated              string   `json:"last_updated"`
}

// MarketsQuery holds the query parameters for GET /coins/markets.
type MarketsQuery struct {
	VsCurrency string // Target currency (e.g., "usd")
	Order      string // Sort order (e.g., "market_cap_desc")
	PerPage    int    // Page size
	Page       int    // 1-based page number
}

// DefaultMarketsQuery returns the query used by the tracker: top 50 by
// market cap, priced in USD.
func DefaultMarketsQuery() MarketsQuery {
	return MarketsQuery{
		VsCurrency: "usd",
		Order:      "market_cap_desc",
		PerPage:    50,
		Page:       1,
	}
}
