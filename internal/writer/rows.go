package writer

import (
	"time"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// assetRow is one crypto_assets row in the SQL mirrors.
type assetRow struct {
	Position  int // 1-based batch position
	CycleID   string
	FetchedAt time.Time
	Record    model.AssetRecord
}

// metricRow is one crypto_analysis row in the SQL mirrors.
type metricRow struct {
	Position int
	CycleID  string
	Metric   string
	Value    string
}

func toAssetRows(snap model.Snapshot) []assetRow {
	rows := make([]assetRow, len(snap.Batch))
	id := snap.CycleID.String()
	for i, r := range snap.Batch {
		rows[i] = assetRow{
			Position:  i + 1,
			CycleID:   id,
			FetchedAt: snap.FetchedAt.UTC(),
			Record:    r,
		}
	}
	return rows
}

func toMetricRows(snap model.Snapshot) []metricRow {
	metrics := AnalysisRows(snap.Analysis)
	rows := make([]metricRow, len(metrics))
	id := snap.CycleID.String()
	for i, m := range metrics {
		rows[i] = metricRow{
			Position: i + 1,
			CycleID:  id,
			Metric:   m.Metric,
			Value:    m.Value,
		}
	}
	return rows
}
