// Command fetch reads both quotes once and prints the lines and the message
// the monitor would send, without sending anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"pricewatch/internal/app"
	"pricewatch/internal/config"
	"pricewatch/internal/jalali"
	"pricewatch/internal/monitor"
	"pricewatch/internal/numeral"
	"pricewatch/internal/pricefmt"
	"pricewatch/internal/quote"
)

func main() {
	var strategy string
	var timeout int
	var configPath string
	var prevGold, prevStable string

	flag.StringVar(&strategy, "strategy", getenv("SOURCE_STRATEGY", ""), "browser or static (default from config)")
	flag.IntVar(&timeout, "timeout", getenvInt("FETCH_TIMEOUT_SEC", 0), "per-page timeout seconds (default from config)")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.StringVar(&prevGold, "prev-gold", "", "previous raw gold quote to compare against")
	flag.StringVar(&prevStable, "prev-stable", "", "previous raw stable quote to compare against")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if strategy != "" {
		cfg.Source.Strategy = strings.ToLower(strategy)
	}
	if timeout > 0 {
		cfg.Source.FetchTimeoutSec = timeout
	}
	if err := cfg.ValidateSource(); err != nil {
		log.Fatalf("config: %v", err)
	}

	src, closeSource, err := app.NewSource(cfg.Source)
	if err != nil {
		log.Fatalf("source: %v", err)
	}
	defer closeSource()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Duration(cfg.Source.FetchTimeoutSec)*time.Second)
	defer cancel()

	raw := map[quote.Instrument]string{}
	for _, inst := range []quote.Instrument{quote.Gold, quote.Stable} {
		text, err := quote.Fetch(ctx, src, inst)
		if err != nil {
			closeSource()
			log.Fatalf("%v", &quote.FetchError{Instrument: inst, Err: err})
		}
		log.Printf("%s: raw=%q amount=%s", inst, text, numeral.Amount(text))
		raw[inst] = text
	}

	f := pricefmt.Formatter{Unit: cfg.Monitor.Unit, Separator: cfg.Monitor.Separator}
	lines := []string{
		f.Line(cfg.Monitor.GoldTitle, raw[quote.Gold], optional(prevGold), false),
		f.Line(cfg.Monitor.StableTitle, raw[quote.Stable], optional(prevStable), true),
	}
	for _, l := range lines {
		fmt.Println(l)
	}

	now := time.Now()
	if cfg.Monitor.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Monitor.Timezone); err == nil {
			now = now.In(loc)
		}
	}
	fmt.Println()
	fmt.Println(monitor.Compose(lines, now, jalali.Date(now), cfg.Monitor.Footer))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if x, err := strconv.Atoi(os.Getenv(key)); err == nil && x > 0 {
		return x
	}
	return def
}
