package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/analysis"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/api"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/config"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/metrics"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/writer"
)

// Fetcher returns the current market batch.
type Fetcher interface {
	FetchMarkets(ctx context.Context, q api.MarketsQuery) (model.Batch, error)
}

// FetcherFunc is a function adapter for Fetcher.
type FetcherFunc func(ctx context.Context, q api.MarketsQuery) (model.Batch, error)

func (f FetcherFunc) FetchMarkets(ctx context.Context, q api.MarketsQuery) (model.Batch, error) {
	return f(ctx, q)
}

// Config holds scheduler configuration.
type Config struct {
	Interval               time.Duration    // Wait after each cycle (default: 300s)
	TopN                   int              // Records in the top list (default: 5)
	Query                  api.MarketsQuery // Market request parameters
	MaxConsecutiveFailures int              // Failing cycles before the cap trips; < 1 disables
	PauseOnCap             bool             // Skip cycles for BreakerCooldown once the cap trips
	BreakerCooldown        time.Duration    // Skip period when PauseOnCap is set (default: 15m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:               config.DefaultInterval,
		TopN:                   analysis.DefaultTopN,
		Query:                  api.DefaultMarketsQuery(),
		MaxConsecutiveFailures: config.DefaultMaxConsecutiveFailures,
		BreakerCooldown:        config.DefaultBreakerCooldown,
	}
}

// ConfigFrom builds a scheduler Config from the tracker configuration.
func ConfigFrom(c *config.TrackerConfig) Config {
	return Config{
		Interval: c.Scheduler.Interval,
		TopN:     c.Analysis.TopN,
		Query: api.MarketsQuery{
			VsCurrency: c.API.VsCurrency,
			Order:      c.API.Order,
			PerPage:    c.API.PerPage,
			Page:       c.API.Page,
		},
		MaxConsecutiveFailures: c.Scheduler.MaxConsecutiveFailures,
		PauseOnCap:             c.Scheduler.PauseOnCap,
		BreakerCooldown:        c.Scheduler.BreakerCooldown,
	}
}

// CycleResult describes one finished cycle.
type CycleResult struct {
	CycleID  uuid.UUID
	Result   string // One of the metrics.Result* values
	Assets   int
	Duration time.Duration
	Err      error
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Cycles              int64     `json:"cycles"`
	Failures            int64     `json:"failures"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastCycleID         string    `json:"last_cycle_id,omitempty"`
	LastResult          string    `json:"last_result,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	LastRun             time.Time `json:"last_run"`
	LastSuccess         time.Time `json:"last_success"`
	BreakerState        string    `json:"breaker_state"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithMetrics sets the metrics the scheduler reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// Scheduler runs fetch, analyze and persist cycles until stopped.
type Scheduler struct {
	cfg     Config
	fetcher Fetcher
	sink    writer.Sink
	logger  *slog.Logger
	clock   Clock
	metrics *metrics.Metrics
	breaker *gobreaker.CircuitBreaker

	mu       sync.Mutex
	status   Status
	snapshot *model.Snapshot
}

// New creates a new Scheduler.
func New(cfg Config, fetcher Fetcher, sink writer.Sink, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = analysis.DefaultTopN
	}

	s := &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		sink:    sink,
		logger:  logger,
		clock:   realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	s.status.BreakerState = "disabled"
	if cfg.MaxConsecutiveFailures > 0 {
		s.status.BreakerState = gobreaker.StateClosed.String()
		if cfg.PauseOnCap {
			s.breaker = s.newBreaker()
		}
	}
	return s
}

func (s *Scheduler) newBreaker() *gobreaker.CircuitBreaker {
	limit := uint32(s.cfg.MaxConsecutiveFailures)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cycle",
		MaxRequests: 1,
		Timeout:     s.cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				s.logger.Error("failure cap reached",
					"consecutive_failures", limit,
					"cooldown", s.cfg.BreakerCooldown,
				)
			default:
				s.logger.Info("failure cap state changed",
					"from", from.String(),
					"to", to.String(),
				)
			}
			s.metrics.SetBreakerOpen(to == gobreaker.StateOpen)
		},
	})
}

// Run executes cycles until ctx is cancelled. The first cycle starts
// immediately; each wait begins when the previous cycle has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"interval", s.cfg.Interval,
		"top_n", s.cfg.TopN,
		"per_page", s.cfg.Query.PerPage,
	)

	for {
		s.RunCycle(ctx)
		if ctx.Err() != nil || !s.wait(ctx) {
			break
		}
	}

	s.logger.Info("scheduler stopped")
	return nil
}

// wait blocks for one interval. It returns false if ctx ends first.
func (s *Scheduler) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.clock.After(s.cfg.Interval):
		return true
	}
}

// RunCycle performs one cycle. It never panics and never returns an
// error to the caller; the outcome is reported in the result.
func (s *Scheduler) RunCycle(ctx context.Context) CycleResult {
	id := uuid.New()
	start := s.clock.Now()
	logger := s.logger.With("cycle_id", id)

	var (
		res  CycleResult
		snap *model.Snapshot
	)
	if s.breaker == nil {
		res, snap = s.cycle(ctx, id, logger)
	} else {
		_, err := s.breaker.Execute(func() (interface{}, error) {
			res, snap = s.cycle(ctx, id, logger)
			return nil, res.Err
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			res = CycleResult{CycleID: id, Result: metrics.ResultSkipped, Err: err}
		}
	}
	res.Duration = s.clock.Now().Sub(start)

	switch res.Result {
	case metrics.ResultOK:
		logger.Info("cycle complete",
			"assets", res.Assets,
			"duration", res.Duration,
		)
	case metrics.ResultEmpty:
		logger.Info("cycle complete, nothing written", "duration", res.Duration)
	case metrics.ResultSkipped:
		logger.Warn("cycle skipped", "reason", res.Err)
	default:
		logger.Error("cycle failed",
			"err", res.Err,
			"duration", res.Duration,
		)
	}

	s.metrics.ObserveCycle(res.Result, res.Duration)
	if snap != nil {
		s.metrics.RecordSuccess(len(snap.Batch), snap.Analysis.AveragePrice, snap.FetchedAt)
	}
	s.record(res, snap, start)
	return res
}

// cycle fetches, analyzes and persists one batch. Panics are converted
// into an error result.
func (s *Scheduler) cycle(ctx context.Context, id uuid.UUID, logger *slog.Logger) (res CycleResult, snap *model.Snapshot) {
	res = CycleResult{CycleID: id}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
			)
			res = CycleResult{CycleID: id, Result: metrics.ResultError, Err: fmt.Errorf("cycle panic: %v", r)}
			snap = nil
		}
	}()

	fetchStart := s.clock.Now()
	batch, err := s.fetcher.FetchMarkets(ctx, s.cfg.Query)
	fetchedAt := s.clock.Now()
	s.metrics.ObserveFetch(fetchedAt.Sub(fetchStart))
	if err != nil {
		res.Result = metrics.ResultError
		res.Err = fmt.Errorf("fetch markets: %w", err)
		return res, nil
	}
	if len(batch) == 0 {
		logger.Warn("no data fetched")
		res.Result = metrics.ResultEmpty
		return res, nil
	}

	a, err := analysis.Analyze(batch, s.cfg.TopN)
	if err != nil {
		res.Result = metrics.ResultError
		res.Err = fmt.Errorf("analyze batch: %w", err)
		return res, nil
	}

	snapshot := model.Snapshot{
		CycleID:   id,
		FetchedAt: fetchedAt,
		Batch:     batch,
		Analysis:  a,
	}
	if err := s.sink.Persist(ctx, snapshot); err != nil {
		res.Result = metrics.ResultError
		res.Err = fmt.Errorf("persist snapshot: %w", err)
		return res, nil
	}

	res.Result = metrics.ResultOK
	res.Assets = len(batch)
	return res, &snapshot
}

func (s *Scheduler) record(res CycleResult, snap *model.Snapshot, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Cycles++
	s.status.LastCycleID = res.CycleID.String()
	s.status.LastResult = res.Result
	s.status.LastRun = at
	s.status.LastError = ""
	if res.Err != nil {
		s.status.LastError = res.Err.Error()
	}

	switch res.Result {
	case metrics.ResultOK:
		s.status.ConsecutiveFailures = 0
		s.status.LastSuccess = at
		s.snapshot = snap
	case metrics.ResultEmpty:
		s.status.ConsecutiveFailures = 0
	case metrics.ResultError:
		s.status.Failures++
		s.status.ConsecutiveFailures++
	}

	switch {
	case s.breaker != nil:
		s.status.BreakerState = s.breaker.State().String()
	case s.cfg.MaxConsecutiveFailures > 0:
		s.escalate()
	}
}

// escalate flags the failure cap without pausing the loop. Every cycle
// still fetches; the state only drives logging, the gauge and /health.
// Caller holds s.mu.
func (s *Scheduler) escalate() {
	open := gobreaker.StateOpen.String()
	capped := s.status.ConsecutiveFailures >= s.cfg.MaxConsecutiveFailures

	switch {
	case capped && s.status.BreakerState != open:
		s.status.BreakerState = open
		s.logger.Error("failure cap reached",
			"consecutive_failures", s.status.ConsecutiveFailures,
			"last_error", s.status.LastError,
		)
		s.metrics.SetBreakerOpen(true)
	case !capped && s.status.BreakerState == open:
		s.status.BreakerState = gobreaker.StateClosed.String()
		s.logger.Info("failure cap cleared")
		s.metrics.SetBreakerOpen(false)
	}
}

// Status returns a copy of the current status.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastSnapshot returns the most recently persisted snapshot.
func (s *Scheduler) LastSnapshot() (model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return model.Snapshot{}, false
	}
	return *s.snapshot, true
}
