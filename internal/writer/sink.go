package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// Sink persists one cycle's snapshot, replacing whatever it held before.
type Sink interface {
	Name() string
	Persist(ctx context.Context, snap model.Snapshot) error
	Close() error
}

// Multi writes a snapshot to several sinks in order.
type Multi struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewMulti creates a Multi over sinks. Nil sinks are ignored.
func NewMulti(logger *slog.Logger, sinks ...Sink) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Multi{logger: logger}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Name returns the sink name.
func (m *Multi) Name() string { return "multi" }

// Sinks returns the names of the wrapped sinks.
func (m *Multi) Sinks() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return names
}

// Persist writes snap to every sink. All sinks are attempted; failures
// are joined into the returned error.
func (m *Multi) Persist(ctx context.Context, snap model.Snapshot) error {
	var errs []error
	for _, s := range m.sinks {
		start := time.Now()
		if err := s.Persist(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		m.logger.Debug("sink updated",
			"sink", s.Name(),
			"rows", len(snap.Batch),
			"duration", time.Since(start),
		)
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
