package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/scheduler"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/writer"
)

const shutdownTimeout = 10 * time.Second

// StatusSource reports scheduler state.
type StatusSource interface {
	Status() scheduler.Status
	LastSnapshot() (model.Snapshot, bool)
}

// Server serves /health, the metrics path and /snapshot.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New creates a status server listening on port.
func New(port int, metricsPath string, src StatusSource, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewHandler(metricsPath, src, gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting status server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown status server: %w", err)
	}
	s.logger.Info("status server stopped")
	return nil
}

// NewHandler builds the router.
func NewHandler(metricsPath string, src StatusSource, gatherer prometheus.Gatherer) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler(src)).Methods(http.MethodGet)
	router.HandleFunc("/snapshot", snapshotHandler(src)).Methods(http.MethodGet)
	router.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

func healthHandler(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := src.Status()

		health := struct {
			Status    string           `json:"status"`
			Scheduler scheduler.Status `json:"scheduler"`
		}{
			Status:    "healthy",
			Scheduler: st,
		}

		switch {
		case st.BreakerState == "open":
			health.Status = "unhealthy"
		case st.ConsecutiveFailures > 0:
			health.Status = "degraded"
		}

		code := http.StatusOK
		if health.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, health)
	}
}

type assetJSON struct {
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	PriceUSD          float64  `json:"price_usd"`
	MarketCapUSD      float64  `json:"market_cap_usd"`
	PriceChange24hPct *float64 `json:"price_change_24h_pct"`
}

type snapshotJSON struct {
	CycleID       string      `json:"cycle_id"`
	FetchedAt     time.Time   `json:"fetched_at"`
	Assets        int         `json:"assets"`
	Top           []assetJSON `json:"top"`
	AveragePrice  string      `json:"average_price"`
	HighestChange string      `json:"highest_change"`
	LowestChange  string      `json:"lowest_change"`
}

func snapshotHandler(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := src.LastSnapshot()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot yet"})
			return
		}

		top := make([]assetJSON, len(snap.Analysis.Top5))
		for i, a := range snap.Analysis.Top5 {
			top[i] = assetJSON{
				Name:              a.Name,
				Symbol:            a.Symbol,
				PriceUSD:          a.PriceUSD,
				MarketCapUSD:      a.MarketCapUSD,
				PriceChange24hPct: a.PriceChange24hPct,
			}
		}

		writeJSON(w, http.StatusOK, snapshotJSON{
			CycleID:       snap.CycleID.String(),
			FetchedAt:     snap.FetchedAt,
			Assets:        len(snap.Batch),
			Top:           top,
			AveragePrice:  writer.FormatUSD(snap.Analysis.AveragePrice),
			HighestChange: writer.FormatChange(snap.Analysis.MaxChange),
			LowestChange:  writer.FormatChange(snap.Analysis.MinChange),
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
