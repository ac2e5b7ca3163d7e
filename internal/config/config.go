package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Telegram struct {
	BotToken  string `json:"bot_token"`
	ChannelID string `json:"channel_id"`
}

type Monitor struct {
	IntervalSec int    `json:"interval_sec"`
	Timezone    string `json:"timezone"`
	GoldTitle   string `json:"gold_title"`
	StableTitle string `json:"stable_title"`
	Unit        string `json:"unit"`
	Separator   string `json:"separator"`
	Footer      string `json:"footer"`
}

type Page struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
}

type Source struct {
	// Strategy is "browser" (headless Chrome) or "static" (plain GET).
	Strategy             string `json:"strategy"`
	FetchTimeoutSec      int    `json:"fetch_timeout_sec"`
	MinRequestIntervalMs int    `json:"min_request_interval_ms"`
	UserAgent            string `json:"user_agent"`
	Headless             bool   `json:"headless"`
	ChromePath           string `json:"chrome_path"`
	Gold                 Page   `json:"gold"`
	Stable               Page   `json:"stable"`
}

type Server struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port"`
}

type Log struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

type Config struct {
	Telegram Telegram `json:"telegram"`
	Monitor  Monitor  `json:"monitor"`
	Source   Source   `json:"source"`
	Server   Server   `json:"server"`
	Log      Log      `json:"log"`
}

const (
	StrategyBrowser = "browser"
	StrategyStatic  = "static"
)

func Default() Config {
	return Config{
		Monitor: Monitor{
			IntervalSec: 300,
			GoldTitle:   "قیمت لحظه‌ای طلا:",
			StableTitle: "قیمت تتر:",
			Unit:        "تومان",
			Separator:   ",",
			Footer:      "میلی‌گلد مرجع قیمت طلا",
		},
		Source: Source{
			Strategy:        StrategyBrowser,
			FetchTimeoutSec: 10,
			Headless:        true,
			Gold: Page{
				URL:      "https://milli.gold/",
				Selector: `p.font-bold.text-title1.leading-title1.text-deepOcean-focus.md\:text-headLine3.md\:leading-headLine3.lg\:text-headLine2.lg\:leading-headLine2`,
			},
			Stable: Page{
				URL:      "https://nobitex.ir/usdt/",
				Selector: `div.text-headline-medium.text-txt-neutral-default.dark\:text-txt-neutral-default.desktop\:text-headline-large`,
			},
		},
		Server: Server{Enabled: true, Port: "8080"},
		Log:    Log{Level: "info", JSON: true},
	}
}

// Load reads JSON config from path. If path is empty, config.json in the
// working directory is used when present; otherwise defaults apply.
// Environment variables override file values, so secrets can stay out of it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// Validate reports settings the monitor cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is not set"))
	}
	if c.Telegram.ChannelID == "" {
		errs = append(errs, errors.New("TELEGRAM_CHANNEL_ID is not set"))
	}
	errs = append(errs, c.validateSource())
	return errors.Join(errs...)
}

func (c Config) validateSource() error {
	var errs []error
	switch c.Source.Strategy {
	case StrategyBrowser, StrategyStatic:
	default:
		errs = append(errs, fmt.Errorf("unknown source strategy %q", c.Source.Strategy))
	}
	if c.Source.Gold.URL == "" || c.Source.Gold.Selector == "" {
		errs = append(errs, errors.New("gold page url and selector are required"))
	}
	if c.Source.Stable.URL == "" || c.Source.Stable.Selector == "" {
		errs = append(errs, errors.New("stable page url and selector are required"))
	}
	return errors.Join(errs...)
}

// ValidateSource checks only the source settings, for tools that never
// deliver messages.
func (c Config) ValidateSource() error { return c.validateSource() }

func applyEnv(cfg *Config) {
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChannelID, "TELEGRAM_CHANNEL_ID")
	setInt(&cfg.Monitor.IntervalSec, "MONITOR_INTERVAL_SEC", 1)
	setString(&cfg.Monitor.Timezone, "TIMEZONE")
	setString(&cfg.Monitor.Footer, "MESSAGE_FOOTER")

	if v := os.Getenv("SOURCE_STRATEGY"); v != "" {
		cfg.Source.Strategy = strings.ToLower(strings.TrimSpace(v))
	}
	setInt(&cfg.Source.FetchTimeoutSec, "FETCH_TIMEOUT_SEC", 1)
	setInt(&cfg.Source.MinRequestIntervalMs, "MIN_REQUEST_INTERVAL_MS", 0)
	setString(&cfg.Source.UserAgent, "USER_AGENT")
	setBool(&cfg.Source.Headless, "HEADLESS")
	setString(&cfg.Source.ChromePath, "CHROME_PATH")
	setString(&cfg.Source.Gold.URL, "GOLD_URL")
	setString(&cfg.Source.Gold.Selector, "GOLD_SELECTOR")
	setString(&cfg.Source.Stable.URL, "STABLE_URL")
	setString(&cfg.Source.Stable.Selector, "STABLE_SELECTOR")

	setString(&cfg.Server.Port, "PORT")
	setBool(&cfg.Server.Enabled, "SERVER_ENABLED")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setBool(&cfg.Log.JSON, "LOG_JSON")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt keeps the current value unless key holds an integer >= min.
func setInt(dst *int, key string, min int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	x, err := strconv.Atoi(strings.TrimSpace(v))
	if err == nil && x >= min {
		*dst = x
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = parseBool(v, *dst)
	}
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return def
}
