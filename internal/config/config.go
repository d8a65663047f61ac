package config

import (
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every knob of the calculator: seed values for the
// input form, sweep shape, file locations, logging and the optional
// network surfaces.
type Config struct {
	DefaultPrice  float64 `mapstructure:"default_price"`
	DefaultLower  float64 `mapstructure:"default_lower"`
	DefaultUpper  float64 `mapstructure:"default_upper"`
	DefaultAmount float64 `mapstructure:"default_amount"`

	CurveSamples int     `mapstructure:"curve_samples"`
	CurveSpan    float64 `mapstructure:"curve_span"`
	SweepWorkers int     `mapstructure:"sweep_workers"`

	ScenariosFile string `mapstructure:"scenarios_file"`
	ExportDir     string `mapstructure:"export_dir"`

	DebugLogging  bool   `mapstructure:"debug_logging"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`

	ListenAddr string `mapstructure:"listen_addr"`

	Influx InfluxConfig `mapstructure:"influx"`
}

// InfluxConfig configures the optional curve publisher. An empty URL
// disables it.
type InfluxConfig struct {
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	Org         string `mapstructure:"org"`
	Bucket      string `mapstructure:"bucket"`
	Measurement string `mapstructure:"measurement"`
}

// Enabled reports whether a publisher target is configured.
func (c InfluxConfig) Enabled() bool {
	return c.URL != ""
}

const (
	DefaultPrice  = 1.0
	DefaultLower  = 0.8
	DefaultUpper  = 1.2
	DefaultAmount = 1000.0

	DefaultCurveSamples = 200
	DefaultCurveSpan    = 0.5
	DefaultSweepWorkers = 4

	DefaultScenariosFile = "configs/scenarios.yaml"
	DefaultExportDir     = "exports"

	DefaultLogFile       = "logs/ilcalc.log"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28

	DefaultListenAddr  = ":8080"
	DefaultMeasurement = "impermanent_loss"
)

// LoadConfig reads the JSON config at path, fills defaults for every
// missing key and validates the result. A missing file is not an
// error; the defaults alone form a working configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("default_price", DefaultPrice)
	v.SetDefault("default_lower", DefaultLower)
	v.SetDefault("default_upper", DefaultUpper)
	v.SetDefault("default_amount", DefaultAmount)
	v.SetDefault("curve_samples", DefaultCurveSamples)
	v.SetDefault("curve_span", DefaultCurveSpan)
	v.SetDefault("sweep_workers", DefaultSweepWorkers)
	v.SetDefault("scenarios_file", DefaultScenariosFile)
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log_max_backups", DefaultLogMaxBackups)
	v.SetDefault("log_max_age_days", DefaultLogMaxAgeDays)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("influx.measurement", DefaultMeasurement)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.DefaultPrice <= 0 {
		return errors.New("default_price must be positive")
	}
	if cfg.DefaultLower <= 0 || cfg.DefaultUpper <= cfg.DefaultLower {
		return errors.New("default bounds must satisfy 0 < default_lower < default_upper")
	}
	if cfg.DefaultAmount <= 0 {
		return errors.New("default_amount must be positive")
	}
	if cfg.CurveSamples < 2 {
		return errors.New("curve_samples must be at least 2")
	}
	if cfg.CurveSpan <= 0 || cfg.CurveSpan >= 1 {
		return errors.New("curve_span must sit in (0, 1)")
	}
	if cfg.SweepWorkers < 1 {
		return errors.New("sweep_workers must be at least 1")
	}
	if cfg.LogMaxSizeMB < 0 || cfg.LogMaxBackups < 0 || cfg.LogMaxAgeDays < 0 {
		return errors.New("log rotation limits must not be negative")
	}
	if cfg.ListenAddr == "" {
		return errors.New("listen_addr is empty")
	}
	if cfg.Influx.Enabled() {
		if err := checkHTTPURL(cfg.Influx.URL); err != nil {
			return errors.New("invalid influx URL")
		}
		if cfg.Influx.Org == "" || cfg.Influx.Bucket == "" {
			return errors.New("influx publishing requires org and bucket")
		}
	}
	return nil
}

func checkHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// loadEnvironmentVariables lets secrets stay out of the config file.
func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("ILCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if token := v.GetString("INFLUX_TOKEN"); token != "" {
		cfg.Influx.Token = token
	}
	if influxURL := v.GetString("INFLUX_URL"); influxURL != "" {
		cfg.Influx.URL = influxURL
	}
}
