package store

import (
	"os"
	"path/filepath"
	"testing"

	"StockCompass/internal/model"
)

const seedJSON = `{
	"2330": [
		{"symbol": "2330", "date": "2024-01-02", "open": 590, "high": 595, "low": 588, "close": 593, "volume": 21000000},
		{"symbol": "2330", "date": "2024-01-03", "open": 593, "high": 598, "low": 592, "close": 596, "volume": 19500000}
	],
	"NVDA": [
		{"symbol": "NVDA", "date": "2024-01-02", "open": 492, "high": 495, "low": 489, "close": 481.68, "volume": 41100000}
	]
}`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "initial_data.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestLoadSeed(t *testing.T) {
	s := newTestStore(t)

	n, err := LoadSeed(s, writeSeedFile(t, seedJSON))
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if n != 3 {
		t.Errorf("LoadSeed() = %d, want 3", n)
	}

	count, err := s.Count("2330")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count(2330) = %d, want 2", count)
	}
}

func TestLoadSeed_SkipsPopulatedSymbols(t *testing.T) {
	s := newTestStore(t)

	// 2330 already has one row with a close the seed file does not contain.
	existing := model.Bar{Symbol: "2330", Date: day(t, "2024-01-02"), Close: 999}
	if _, err := s.Upsert("2330", []model.Bar{existing}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := LoadSeed(s, writeSeedFile(t, seedJSON))
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if n != 1 {
		t.Errorf("LoadSeed() = %d, want 1 (only NVDA)", n)
	}

	bars, err := s.ReadAll("2330")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 999 {
		t.Errorf("seed overwrote existing rows: got %+v", bars)
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	s := newTestStore(t)
	n, err := LoadSeed(s, filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadSeed() on missing file error = %v", err)
	}
	if n != 0 {
		t.Errorf("LoadSeed() = %d, want 0", n)
	}
}

func TestLoadSeed_MalformedFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := LoadSeed(s, writeSeedFile(t, "{not json")); err == nil {
		t.Error("LoadSeed() on malformed file expected error, got nil")
	}
}

func TestLoadSeed_DropsBadDates(t *testing.T) {
	s := newTestStore(t)
	content := `{"2603": [
		{"symbol": "2603", "date": "not-a-date", "close": 10},
		{"symbol": "2603", "date": "2024-01-02", "close": 11}
	]}`

	n, err := LoadSeed(s, writeSeedFile(t, content))
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}
	if n != 1 {
		t.Errorf("LoadSeed() = %d, want 1 (bad date dropped)", n)
	}
}
