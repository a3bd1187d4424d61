package api

import (
	"strings"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// ToModel converts a CoinMarket to model.AssetRecord.
// Null price, market cap and volume become 0; a null 24h change stays nil.
func (m *CoinMarket) ToModel() model.AssetRecord {
	rec := model.AssetRecord{
		Name:         m.Name,
		Symbol:       strings.ToUpper(m.Symbol),
		PriceUSD:     derefFloat(m.CurrentPrice),
		MarketCapUSD: derefFloat(m.MarketCap),
		Volume24hUSD: derefFloat(m.TotalVolume),
	}
	if m.PriceChangePercentage24h != nil {
		rec.PriceChange24hPct = model.Float64(*m.PriceChangePercentage24h)
	}
	return rec
}

// ToBatch converts a response page to a Batch, preserving order.
func ToBatch(coins []CoinMarket) model.Batch {
	batch := make(model.Batch, 0, len(coins))
	for i := range coins {
		batch = append(batch, coins[i].ToModel())
	}
	return batch
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
