package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/config"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// redisAsset is the JSON element stored in the assets list.
type redisAsset struct {
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	PriceUSD          float64  `json:"price_usd"`
	MarketCapUSD      float64  `json:"market_cap_usd"`
	Volume24hUSD      float64  `json:"volume_24h_usd"`
	PriceChange24hPct *float64 `json:"price_change_24h_pct"`
}

// RedisKeys names the keys a RedisSink writes under one prefix.
type RedisKeys struct {
	Assets   string // list of JSON records in batch order
	Analysis string // hash metric -> formatted value
	Meta     string // hash with cycle_id, fetched_at, count
}

// NewRedisKeys returns the key set for prefix.
func NewRedisKeys(prefix string) RedisKeys {
	if prefix == "" {
		prefix = config.DefaultRedisKeyPrefix
	}
	return RedisKeys{
		Assets:   prefix + ":assets",
		Analysis: prefix + ":analysis",
		Meta:     prefix + ":meta",
	}
}

// RedisSink mirrors the latest snapshot into Redis.
type RedisSink struct {
	client *redis.Client
	keys   RedisKeys
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*RedisSink, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return &RedisSink{
		client: client,
		keys:   NewRedisKeys(cfg.KeyPrefix),
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Name returns the sink name.
func (s *RedisSink) Name() string { return "redis" }

// Persist replaces the assets list and both hashes atomically.
func (s *RedisSink) Persist(ctx context.Context, snap model.Snapshot) error {
	assets, err := encodeRedisAssets(snap.Batch)
	if err != nil {
		return err
	}
	analysis := analysisHash(snap.Analysis)
	meta := metaHash(snap)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.keys.Assets, s.keys.Analysis, s.keys.Meta)
		if len(assets) > 0 {
			pipe.RPush(ctx, s.keys.Assets, assets...)
		}
		pipe.HSet(ctx, s.keys.Analysis, analysis)
		pipe.HSet(ctx, s.keys.Meta, meta)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.keys.Assets, s.ttl)
			pipe.Expire(ctx, s.keys.Analysis, s.ttl)
			pipe.Expire(ctx, s.keys.Meta, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

func encodeRedisAssets(batch model.Batch) ([]any, error) {
	out := make([]any, 0, len(batch))
	for _, r := range batch {
		data, err := json.Marshal(redisAsset{
			Name:              r.Name,
			Symbol:            r.Symbol,
			PriceUSD:          r.PriceUSD,
			MarketCapUSD:      r.MarketCapUSD,
			Volume24hUSD:      r.Volume24hUSD,
			PriceChange24hPct: r.PriceChange24hPct,
		})
		if err != nil {
			return nil, fmt.Errorf("encode asset %s: %w", r.Symbol, err)
		}
		out = append(out, string(data))
	}
	return out, nil
}

func analysisHash(a model.Analysis) map[string]any {
	rows := AnalysisRows(a)
	h := make(map[string]any, len(rows))
	for _, r := range rows {
		h[r.Metric] = r.Value
	}
	return h
}

func metaHash(snap model.Snapshot) map[string]any {
	return map[string]any{
		"cycle_id":   snap.CycleID.String(),
		"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
		"count":      strconv.Itoa(len(snap.Batch)),
	}
}
