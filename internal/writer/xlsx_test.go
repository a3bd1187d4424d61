package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/analysis"
	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

func scenarioBatch() model.Batch {
	return model.Batch{
		{Name: "Bitcoin", Symbol: "BTC", PriceUSD: 50000, MarketCapUSD: 1e12, Volume24hUSD: 3e10, PriceChange24hPct: model.Float64(2.5)},
		{Name: "Ether", Symbol: "ETH", PriceUSD: 3000, MarketCapUSD: 4e11, Volume24hUSD: 2e10, PriceChange24hPct: model.Float64(-1.2)},
	}
}

func makeBatch(n int) model.Batch {
	batch := make(model.Batch, n)
	for i := range batch {
		batch[i] = model.AssetRecord{
			Name:              fmt.Sprintf("Coin %d", i),
			Symbol:            fmt.Sprintf("C%d", i),
			PriceUSD:          float64(i + 1),
			MarketCapUSD:      float64(1000 - i),
			Volume24hUSD:      float64(10 * i),
			PriceChange24hPct: model.Float64(float64(i) - 3),
		}
	}
	return batch
}

func mustAnalyze(t *testing.T, batch model.Batch) model.Analysis {
	t.Helper()
	a, err := analysis.Analyze(batch, analysis.DefaultTopN)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return a
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows(%q): %v", sheet, err)
	}
	return rows
}

func TestXLSXWriter_CreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Crypto_Live_Data.xlsx")
	w := NewXLSXWriter(path, nil)

	batch := scenarioBatch()
	if err := w.Write(batch, mustAnalyze(t, batch)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data := readRows(t, path, DataSheet)
	if len(data) != 3 {
		t.Fatalf("data rows = %d, want 3 (header + 2)", len(data))
	}
	if !reflect.DeepEqual(data[0], DataHeader) {
		t.Errorf("data header = %v, want %v", data[0], DataHeader)
	}
	wantFirst := []string{"Bitcoin", "BTC", "50000", "1000000000000", "30000000000", "2.5"}
	if !reflect.DeepEqual(data[1], wantFirst) {
		t.Errorf("data[1] = %v, want %v", data[1], wantFirst)
	}
	if data[2][0] != "Ether" || data[2][5] != "-1.2" {
		t.Errorf("data[2] = %v, want Ether row with -1.2", data[2])
	}

	got := readRows(t, path, AnalysisSheet)
	want := [][]string{
		{"Metric", "Value"},
		{"Average Price", "$26500.00"},
		{"Highest 24h Change", "Bitcoin (2.50%)"},
		{"Lowest 24h Change", "Ether (-1.20%)"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("analysis rows = %v, want %v", got, want)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if !reflect.DeepEqual(sheets, []string{DataSheet, AnalysisSheet}) {
		t.Errorf("sheets = %v, want [%s %s]", sheets, DataSheet, AnalysisSheet)
	}
}

func TestXLSXWriter_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)

	batch := makeBatch(7)
	a := mustAnalyze(t, batch)

	if err := w.Write(batch, a); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	once := readRows(t, path, DataSheet)
	onceAnalysis := readRows(t, path, AnalysisSheet)

	if err := w.Write(batch, a); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	twice := readRows(t, path, DataSheet)
	twiceAnalysis := readRows(t, path, AnalysisSheet)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("data rows differ after second write:\n once=%v\ntwice=%v", once, twice)
	}
	if !reflect.DeepEqual(onceAnalysis, twiceAnalysis) {
		t.Errorf("analysis rows differ after second write:\n once=%v\ntwice=%v", onceAnalysis, twiceAnalysis)
	}
	if len(twice) != 8 {
		t.Errorf("data rows = %d, want 8", len(twice))
	}
}

func TestXLSXWriter_RemovesStaleRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)

	stale := makeBatch(50)
	if err := w.Write(stale, mustAnalyze(t, stale)); err != nil {
		t.Fatalf("Write stale failed: %v", err)
	}
	if got := len(readRows(t, path, DataSheet)); got != 51 {
		t.Fatalf("stale data rows = %d, want 51", got)
	}

	fresh := scenarioBatch()
	fresh = append(fresh, makeBatch(8)...)
	if err := w.Write(fresh, mustAnalyze(t, fresh)); err != nil {
		t.Fatalf("Write fresh failed: %v", err)
	}

	rows := readRows(t, path, DataSheet)
	if len(rows) != 11 {
		t.Fatalf("data rows = %d, want 11 (header + 10)", len(rows))
	}
	if rows[1][0] != "Bitcoin" || rows[10][0] != "Coin 7" {
		t.Errorf("rows[1][0] = %q, rows[10][0] = %q, want Bitcoin, Coin 7", rows[1][0], rows[10][0])
	}
	if got := len(readRows(t, path, AnalysisSheet)); got != 4 {
		t.Errorf("analysis rows = %d, want 4", got)
	}
}

func TestXLSXWriter_ExistingWorkbookWithoutSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "keep me"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	w := NewXLSXWriter(path, nil)
	batch := scenarioBatch()
	if err := w.Write(batch, mustAnalyze(t, batch)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data := readRows(t, path, DataSheet)
	if len(data) != 3 || !reflect.DeepEqual(data[0], DataHeader) {
		t.Errorf("data sheet = %v, want header + 2 rows", data)
	}
	other := readRows(t, path, "Sheet1")
	if len(other) != 1 || other[0][0] != "keep me" {
		t.Errorf("Sheet1 = %v, want untouched", other)
	}
}

func TestXLSXWriter_MissingChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)

	batch := model.Batch{
		{Name: "Newcoin", Symbol: "NEW", PriceUSD: 1, MarketCapUSD: 10},
		{Name: "Othercoin", Symbol: "OTH", PriceUSD: 3, MarketCapUSD: 5},
	}
	if err := w.Write(batch, mustAnalyze(t, batch)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data := readRows(t, path, DataSheet)
	for _, row := range data[1:] {
		if len(row) > 5 && row[5] != "" {
			t.Errorf("change cell = %q, want empty", row[5])
		}
	}

	got := readRows(t, path, AnalysisSheet)
	want := [][]string{
		{"Metric", "Value"},
		{"Average Price", "$2.00"},
		{"Highest 24h Change", "N/A"},
		{"Lowest 24h Change", "N/A"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("analysis rows = %v, want %v", got, want)
	}
}

func TestXLSXWriter_CorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	w := NewXLSXWriter(path, nil)
	batch := scenarioBatch()
	if err := w.Write(batch, mustAnalyze(t, batch)); err == nil {
		t.Fatal("expected error for corrupt workbook, got nil")
	}

	// The corrupt file is left as-is rather than half-overwritten.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "not a zip" {
		t.Errorf("corrupt file was modified")
	}
}

func TestXLSXWriter_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewXLSXWriter(path, nil)

	batch := scenarioBatch()
	snap := model.Snapshot{Batch: batch, Analysis: mustAnalyze(t, batch)}

	if err := w.Persist(context.Background(), snap); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if got := len(readRows(t, path, DataSheet)); got != 3 {
		t.Errorf("data rows = %d, want 3", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Persist(ctx, snap); err == nil {
		t.Error("Persist with canceled context should fail")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the workbook (no temp files)", len(entries))
	}
}
