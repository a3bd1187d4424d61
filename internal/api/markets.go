package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// GetCoinMarkets fetches one page of coin market data.
func (c *Client) GetCoinMarkets(ctx context.Context, q MarketsQuery) ([]CoinMarket, error) {
	query := url.Values{}

	if q.VsCurrency != "" {
		query.Set("vs_currency", q.VsCurrency)
	}
	if q.Order != "" {
		query.Set("order", q.Order)
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}

	var resp []CoinMarket
	if err := c.get(ctx, "/coins/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get coin markets: %w", err)
	}

	return resp, nil
}

// FetchMarkets fetches one page of markets and maps it to a Batch.
//
// A non-200 response is logged and yields an empty batch with a nil
// error. Transport and decode failures are returned.
func (c *Client) FetchMarkets(ctx context.Context, q MarketsQuery) (model.Batch, error) {
	start := time.Now()

	coins, err := c.GetCoinMarkets(ctx, q)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.logger.Warn("api error",
				"status", apiErr.StatusCode,
				"message", apiErr.Message,
				"retry_after", apiErr.RetryAfter,
			)
			return model.Batch{}, nil
		}
		return nil, err
	}

	batch := ToBatch(coins)

	c.logger.Debug("fetched markets",
		"count", len(batch),
		"duration", time.Since(start),
	)

	return batch, nil
}
