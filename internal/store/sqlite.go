package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockCompass/internal/model"
)

// SQLite is the Store implementation backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLite opens (or creates) the database file and applies migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL keeps chart reads from stalling behind pipeline writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store ready at %s", dbPath)
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_history (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume INTEGER,
			UNIQUE(symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol ON stock_history(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_history_date ON stock_history(date)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol_date ON stock_history(symbol, date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Upsert writes bars inside a single transaction. Dates are stored as
// YYYY-MM-DD text so lexicographic order matches chronological order.
func (s *SQLite) Upsert(symbol string, bars []model.Bar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO stock_history
		(symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, b := range bars {
		date := b.Date.Format(model.DateFormat)
		if _, err := stmt.Exec(symbol, date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert %s %s: %w", symbol, date, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return count, nil
}

func (s *SQLite) LatestDate(symbol string) (time.Time, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRow(`SELECT MAX(date) FROM stock_history WHERE symbol = ?`, symbol).Scan(&raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest date: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false, nil
	}

	d, err := model.ParseDate(raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse latest date %q: %w", raw.String, err)
	}
	return d, true, nil
}

func (s *SQLite) ReadAll(symbol string) ([]model.Bar, error) {
	rows, err := s.db.Query(`SELECT date, open, high, low, close, volume
		FROM stock_history WHERE symbol = ? ORDER BY date ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var raw string
		b := model.Bar{Symbol: symbol}
		if err := rows.Scan(&raw, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		d, err := model.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", raw, err)
		}
		b.Date = d
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *SQLite) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM stock_history ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func (s *SQLite) Count(symbol string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stock_history WHERE symbol = ?`, symbol).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
