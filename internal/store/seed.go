package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"StockCompass/internal/model"
)

// seedRecord mirrors one entry of the JSON seed file, which maps each symbol
// to a list of pre-fetched daily bars.
type seedRecord struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// LoadSeed imports history from a JSON seed file so a fresh deployment does
// not have to backfill everything over the network. Symbols that already have
// rows are skipped, which makes the loader safe to run on every start. A
// missing file is not an error. Returns the number of bars inserted.
func LoadSeed(st Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[INFO] no seed file at %s, skipping", path)
			return 0, nil
		}
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var bySymbol map[string][]seedRecord
	if err := json.Unmarshal(data, &bySymbol); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	total := 0
	for symbol, records := range bySymbol {
		existing, err := st.Count(symbol)
		if err != nil {
			return total, fmt.Errorf("count %s: %w", symbol, err)
		}
		if existing > 0 {
			log.Printf("[INFO] seed: %s already has %d rows, skipping", symbol, existing)
			continue
		}

		bars := make([]model.Bar, 0, len(records))
		for _, rec := range records {
			d, err := model.ParseDate(rec.Date)
			if err != nil {
				log.Printf("[WARN] seed: bad date %q for %s, record dropped", rec.Date, symbol)
				continue
			}
			bars = append(bars, model.Bar{
				Symbol: symbol,
				Date:   d,
				Open:   rec.Open,
				High:   rec.High,
				Low:    rec.Low,
				Close:  rec.Close,
				Volume: rec.Volume,
			})
		}

		n, err := st.Upsert(symbol, bars)
		if err != nil {
			return total, fmt.Errorf("seed %s: %w", symbol, err)
		}
		log.Printf("[INFO] seed: loaded %d bars for %s", n, symbol)
		total += n
	}
	return total, nil
}
