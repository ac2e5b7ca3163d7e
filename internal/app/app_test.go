package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"pricewatch/internal/config"
	"pricewatch/internal/quote/browser"
	"pricewatch/internal/quote/htmlsource"
	"pricewatch/internal/quote/ratelimit"
)

func TestNewSource_Strategies(t *testing.T) {
	cfg := config.Default().Source

	src, closeFn, err := NewSource(cfg)
	require.NoError(t, err)
	require.IsType(t, &browser.Source{}, src)
	closeFn()

	cfg.Strategy = config.StrategyStatic
	src, closeFn, err = NewSource(cfg)
	require.NoError(t, err)
	require.IsType(t, &htmlsource.Source{}, src)
	closeFn()

	cfg.MinRequestIntervalMs = 500
	src, _, err = NewSource(cfg)
	require.NoError(t, err)
	require.IsType(t, &ratelimit.MinInterval{}, src)

	cfg.Strategy = "ftp"
	_, closeFn, err = NewSource(cfg)
	require.Error(t, err)
	require.NotNil(t, closeFn)
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Log{Level: "warn", JSON: true})

	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "v", line["k"])
}

func TestMonitorOptions(t *testing.T) {
	cfg := config.Default().Monitor

	opts, err := MonitorOptions(cfg, NewLogger(&bytes.Buffer{}, config.Log{}))
	require.NoError(t, err)
	require.NotEmpty(t, opts)

	cfg.Timezone = "Mars/Olympus_Mons"
	_, err = MonitorOptions(cfg, nil)
	require.ErrorContains(t, err, "timezone")
}
