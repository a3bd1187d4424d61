package writer

import (
	"fmt"
	"strconv"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// Sheet names and header rows of the output workbook.
const (
	DataSheet     = "Live Crypto Data"
	AnalysisSheet = "Analysis"
)

// DataHeader is the header row of the data sheet.
var DataHeader = []string{
	"Name",
	"Symbol",
	"Price (USD)",
	"Market Cap (USD)",
	"24h Volume (USD)",
	"Price Change 24h (%)",
}

// AnalysisHeader is the header row of the analysis sheet.
var AnalysisHeader = []string{"Metric", "Value"}

// Metric names written to the analysis sheet.
const (
	MetricAveragePrice  = "Average Price"
	MetricHighestChange = "Highest 24h Change"
	MetricLowestChange  = "Lowest 24h Change"
	notAvailable        = "N/A"
)

// MetricRow is one row of the analysis sheet.
type MetricRow struct {
	Metric string
	Value  string
}

// AnalysisRows returns the three metric rows for a, in sheet order.
func AnalysisRows(a model.Analysis) []MetricRow {
	return []MetricRow{
		{MetricAveragePrice, FormatUSD(a.AveragePrice)},
		{MetricHighestChange, FormatChange(a.MaxChange)},
		{MetricLowestChange, FormatChange(a.MinChange)},
	}
}

// FormatUSD formats v as "$" plus two decimals, e.g. "$26500.00".
// Rounding works on the exact binary value, ties to even, so 0.125
// becomes "$0.12" and 2.675 becomes "$2.67".
func FormatUSD(v float64) string {
	return "$" + fixed2(v)
}

// FormatChange formats a record as "Name (x.xx%)", or "N/A" for nil.
func FormatChange(r *model.AssetRecord) string {
	if r == nil || !r.HasChange() {
		return notAvailable
	}
	return fmt.Sprintf("%s (%s%%)", r.Name, fixed2(r.Change()))
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// dataRow returns the data sheet cells for r. A missing 24h change is nil.
func dataRow(r model.AssetRecord) []any {
	var change any
	if r.PriceChange24hPct != nil {
		change = *r.PriceChange24hPct
	}
	return []any{r.Name, r.Symbol, r.PriceUSD, r.MarketCapUSD, r.Volume24hUSD, change}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
