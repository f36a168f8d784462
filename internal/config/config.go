package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockCompass/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		SeedFile   string `yaml:"seed_file"`
	} `yaml:"database"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"data_source"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron"`
	} `yaml:"schedule"`
	Update struct {
		BackfillStart string `yaml:"backfill_start"`
		PacingMS      int    `yaml:"pacing_ms"`
		StateFile     string `yaml:"state_file"`
		RunOnStart    bool   `yaml:"run_on_start"`
	} `yaml:"update"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy  string        `yaml:"proxy"`
	Stocks []model.Stock `yaml:"stocks"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	// A local .env is optional.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SEED_FILE"); v != "" {
		cfg.Database.SeedFile = v
	}
	if v := os.Getenv("FINMIND_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FINMIND_TOKEN"); v != "" {
		cfg.DataSource.Token = v
	}
	if v := os.Getenv("UPDATE_CRON"); v != "" {
		cfg.Schedule.UpdateCron = v
	}
	if v := os.Getenv("UPDATE_PACING_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Update.PacingMS = ms
		}
	}
	if v := os.Getenv("RUN_ON_START"); v == "1" || v == "true" {
		cfg.Update.RunOnStart = true
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stocks.db"
	}
	if cfg.Database.SeedFile == "" {
		cfg.Database.SeedFile = "data/initial_data.json"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.finmindtrade.com/api/v4/data"
	}
	if cfg.Schedule.UpdateCron == "" {
		// Daily at 18:00, after the Taiwan session settles.
		cfg.Schedule.UpdateCron = "0 0 18 * * *"
	}
	if cfg.Update.BackfillStart == "" {
		cfg.Update.BackfillStart = "2020-01-01"
	}
	if cfg.Update.PacingMS == 0 {
		cfg.Update.PacingMS = 1000
	}
	if cfg.Update.StateFile == "" {
		cfg.Update.StateFile = "data/last_update.json"
	}
	if len(cfg.Stocks) == 0 {
		cfg.Stocks = defaultStocks()
	}
	for i := range cfg.Stocks {
		if cfg.Stocks[i].DataID == "" {
			cfg.Stocks[i].DataID = cfg.Stocks[i].Symbol
		}
		if cfg.Stocks[i].Dataset == "" {
			if cfg.Stocks[i].Market == "US" {
				cfg.Stocks[i].Dataset = "USStockPrice"
			} else {
				cfg.Stocks[i].Dataset = "TaiwanStockPrice"
			}
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are set and well formed.
func (c *Config) Validate() error {
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Schedule.UpdateCron == "" {
		return fmt.Errorf("schedule.update_cron is required")
	}
	if _, err := model.ParseDate(c.Update.BackfillStart); err != nil {
		return fmt.Errorf("update.backfill_start: %w", err)
	}
	if c.Update.PacingMS < 0 {
		return fmt.Errorf("update.pacing_ms must not be negative")
	}
	if len(c.Stocks) == 0 {
		return fmt.Errorf("at least one stock is required")
	}
	for _, s := range c.Stocks {
		if s.Symbol == "" {
			return fmt.Errorf("stock with empty symbol")
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Pacing returns the delay between upstream fetches.
func (c *Config) Pacing() time.Duration {
	return time.Duration(c.Update.PacingMS) * time.Millisecond
}

// BackfillStartDate parses the configured backfill start.
func (c *Config) BackfillStartDate() (time.Time, error) {
	return model.ParseDate(c.Update.BackfillStart)
}

// TelegramEnabled reports whether run reports should go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func defaultStocks() []model.Stock {
	return []model.Stock{
		{Symbol: "2330", DataID: "2330", Name: "台積電", Market: "TW", Dataset: "TaiwanStockPrice"},
		{Symbol: "2317", DataID: "2317", Name: "鴻海", Market: "TW", Dataset: "TaiwanStockPrice"},
		{Symbol: "2454", DataID: "2454", Name: "聯發科", Market: "TW", Dataset: "TaiwanStockPrice"},
		{Symbol: "2603", DataID: "2603", Name: "長榮", Market: "TW", Dataset: "TaiwanStockPrice"},
		{Symbol: "3231", DataID: "3231", Name: "緯創", Market: "TW", Dataset: "TaiwanStockPrice"},
		{Symbol: "NVDA", DataID: "NVDA", Name: "NVIDIA", Market: "US", Dataset: "USStockPrice"},
		{Symbol: "AAPL", DataID: "AAPL", Name: "Apple", Market: "US", Dataset: "USStockPrice"},
		{Symbol: "TSLA", DataID: "TSLA", Name: "Tesla", Market: "US", Dataset: "USStockPrice"},
		{Symbol: "MSFT", DataID: "MSFT", Name: "Microsoft", Market: "US", Dataset: "USStockPrice"},
		{Symbol: "AMD", DataID: "AMD", Name: "AMD", Market: "US", Dataset: "USStockPrice"},
	}
}
