package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultPrice, cfg.DefaultPrice)
	assert.Equal(t, DefaultLower, cfg.DefaultLower)
	assert.Equal(t, DefaultUpper, cfg.DefaultUpper)
	assert.Equal(t, DefaultAmount, cfg.DefaultAmount)
	assert.Equal(t, DefaultCurveSamples, cfg.CurveSamples)
	assert.Equal(t, DefaultCurveSpan, cfg.CurveSpan)
	assert.Equal(t, DefaultSweepWorkers, cfg.SweepWorkers)
	assert.Equal(t, DefaultScenariosFile, cfg.ScenariosFile)
	assert.Equal(t, DefaultExportDir, cfg.ExportDir)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultMeasurement, cfg.Influx.Measurement)
	assert.False(t, cfg.Influx.Enabled())
	assert.False(t, cfg.DebugLogging)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCurveSamples, cfg.CurveSamples)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"default_price": 2.5,
		"default_lower": 2.0,
		"default_upper": 3.0,
		"curve_samples": 50,
		"curve_span": 0.25,
		"sweep_workers": 8,
		"debug_logging": true,
		"influx": {
			"url": "http://localhost:8086",
			"org": "home",
			"bucket": "ilcalc"
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.DefaultPrice)
	assert.Equal(t, 2.0, cfg.DefaultLower)
	assert.Equal(t, 3.0, cfg.DefaultUpper)
	assert.Equal(t, 50, cfg.CurveSamples)
	assert.Equal(t, 0.25, cfg.CurveSpan)
	assert.Equal(t, 8, cfg.SweepWorkers)
	assert.True(t, cfg.DebugLogging)
	assert.True(t, cfg.Influx.Enabled())
	assert.Equal(t, DefaultMeasurement, cfg.Influx.Measurement)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative price", `{"default_price": -1}`},
		{"inverted bounds", `{"default_lower": 1.2, "default_upper": 0.8}`},
		{"zero amount", `{"default_amount": 0}`},
		{"one sample", `{"curve_samples": 1}`},
		{"full span", `{"curve_span": 1.0}`},
		{"zero workers", `{"sweep_workers": 0}`},
		{"negative rotation", `{"log_max_backups": -1}`},
		{"empty listen addr", `{"listen_addr": ""}`},
		{"influx without bucket", `{"influx": {"url": "http://localhost:8086", "org": "home"}}`},
		{"influx bad scheme", `{"influx": {"url": "ftp://nope", "org": "home", "bucket": "b"}}`},
		{"malformed json", `{"default_price": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ILCALC_INFLUX_TOKEN", "secret-token")
	t.Setenv("ILCALC_INFLUX_URL", "http://influx.internal:8086")

	cfg, err := LoadConfig(writeConfig(t, `{"influx": {"org": "home", "bucket": "ilcalc"}}`))
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Influx.Token)
	assert.Equal(t, "http://influx.internal:8086", cfg.Influx.URL)
	assert.True(t, cfg.Influx.Enabled())
}
