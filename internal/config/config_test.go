package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every override so a developer's shell does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LISTEN_ADDR", "DB_PATH", "SEED_FILE", "FINMIND_BASE_URL",
		"FINMIND_TOKEN", "UPDATE_CRON", "UPDATE_PACING_MS", "RUN_ON_START",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Database.SQLitePath != "data/stocks.db" {
		t.Errorf("sqlite path = %q", cfg.Database.SQLitePath)
	}
	if cfg.Update.BackfillStart != "2020-01-01" {
		t.Errorf("backfill start = %q", cfg.Update.BackfillStart)
	}
	if got := cfg.Pacing(); got != time.Second {
		t.Errorf("pacing = %v, want 1s", got)
	}
	if len(cfg.Stocks) != 10 {
		t.Fatalf("default universe has %d stocks, want 10", len(cfg.Stocks))
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
server:
  addr: ":9000"
database:
  sqlite_path: "/tmp/test.db"
data_source:
  token: "yaml-token"
update:
  backfill_start: "2021-06-01"
  pacing_ms: 250
stocks:
  - symbol: "2330"
    name: "台積電"
    market: "TW"
  - symbol: "NVDA"
    name: "NVIDIA"
    market: "US"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.DataSource.Token != "yaml-token" {
		t.Errorf("token = %q", cfg.DataSource.Token)
	}
	if got := cfg.Pacing(); got != 250*time.Millisecond {
		t.Errorf("pacing = %v", got)
	}
	if len(cfg.Stocks) != 2 {
		t.Fatalf("stocks = %d, want 2", len(cfg.Stocks))
	}
	// Omitted per-stock fields are filled from symbol and market.
	if cfg.Stocks[0].DataID != "2330" || cfg.Stocks[0].Dataset != "TaiwanStockPrice" {
		t.Errorf("TW stock fill-in wrong: %+v", cfg.Stocks[0])
	}
	if cfg.Stocks[1].DataID != "NVDA" || cfg.Stocks[1].Dataset != "USStockPrice" {
		t.Errorf("US stock fill-in wrong: %+v", cfg.Stocks[1])
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", ":7777")
	t.Setenv("FINMIND_TOKEN", "env-token")
	t.Setenv("UPDATE_PACING_MS", "50")
	t.Setenv("RUN_ON_START", "true")

	path := writeConfig(t, `
server:
  addr: ":9000"
data_source:
  token: "yaml-token"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":7777" {
		t.Errorf("addr = %q, env should win over yaml", cfg.Server.Addr)
	}
	if cfg.DataSource.Token != "env-token" {
		t.Errorf("token = %q, env should win over yaml", cfg.DataSource.Token)
	}
	if cfg.Update.PacingMS != 50 {
		t.Errorf("pacing_ms = %d, want 50", cfg.Update.PacingMS)
	}
	if !cfg.Update.RunOnStart {
		t.Error("RUN_ON_START=true should enable run on start")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "stocks: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"bad backfill date", func(c *Config) { c.Update.BackfillStart = "01/01/2020" }, true},
		{"negative pacing", func(c *Config) { c.Update.PacingMS = -5 }, true},
		{"no stocks", func(c *Config) { c.Stocks = nil }, true},
		{"empty symbol", func(c *Config) { c.Stocks[0].Symbol = "" }, true},
		{"telegram token without chat", func(c *Config) { c.Telegram.BotToken = "tok" }, true},
		{"telegram pair", func(c *Config) { c.Telegram.BotToken = "tok"; c.Telegram.ChatID = "42" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
