package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/report"
	"TickerBench/internal/shared/constants"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "TICKERBENCH"

type Config struct {
	App       AppConfig        `mapstructure:"app"`
	Benchmark BenchmarkConfig  `mapstructure:"benchmark"`
	Endpoints []EndpointConfig `mapstructure:"endpoints"`
	Report    ReportConfig     `mapstructure:"report"`
	DNS       DNSConfig        `mapstructure:"dns"`
	Redis     RedisConfig      `mapstructure:"redis"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Logging   LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type BenchmarkConfig struct {
	Iterations   int           `mapstructure:"iterations"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Cooldown     time.Duration `mapstructure:"cooldown"`
	Parallel     bool          `mapstructure:"parallel"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	UserAgent    string        `mapstructure:"user_agent"`
	TrackFields  bool          `mapstructure:"track_fields"`
}

type EndpointConfig struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
}

type ReportConfig struct {
	OutputDir   string   `mapstructure:"output_dir"`
	Prefix      string   `mapstructure:"prefix"`
	Formats     []string `mapstructure:"formats"`
	Highlight   string   `mapstructure:"highlight"`
	ChartWidth  int      `mapstructure:"chart_width"`
	ChartHeight int      `mapstructure:"chart_height"`
}

type DNSConfig struct {
	Server     string        `mapstructure:"server"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RecordType string        `mapstructure:"record_type"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"iterations": "benchmark.iterations",
	"timeout":    "benchmark.timeout",
	"cooldown":   "benchmark.cooldown",
	"parallel":   "benchmark.parallel",
	"out":        "report.output_dir",
	"format":     "report.formats",
	"highlight":  "report.highlight",
	"log-level":  "logging.level",
}

// Load reads configs/config.yaml (or path when given), then .env, the
// environment and finally any changed flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var errViper viper.ConfigFileNotFoundError
		if errors.As(err, &errViper) {
			slog.Warn("config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config, %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed, %w", err)
	}

	slog.Debug("configuration loaded successfully", "file", v.ConfigFileUsed())
	return &config, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tickerbench")
	v.SetDefault("app.version", "1.0.0")

	// benchmark defaults
	v.SetDefault("benchmark.iterations", constants.DefaultIterations)
	v.SetDefault("benchmark.timeout", constants.DefaultTimeout)
	v.SetDefault("benchmark.cooldown", constants.DefaultCooldown)
	v.SetDefault("benchmark.parallel", false)
	v.SetDefault("benchmark.max_body_bytes", constants.MaxBodyBytes)
	v.SetDefault("benchmark.user_agent", constants.DefaultUserAgent)
	v.SetDefault("benchmark.track_fields", true)

	v.SetDefault("endpoints", []map[string]any{
		{"name": "Gate.io", "url": "https://api.gateio.ws/api/v4/spot/tickers?currency_pair=BTC_USDT", "category": "ticker"},
		{"name": "Binance", "url": "https://api.binance.com/api/v3/ticker/price?symbol=BTCUSDT", "category": "ticker"},
		{"name": "Kraken", "url": "https://api.kraken.com/0/public/Ticker?pair=XBTUSD", "category": "ticker"},
	})

	// report defaults
	v.SetDefault("report.output_dir", "results")
	v.SetDefault("report.prefix", "exchange")
	v.SetDefault("report.formats", report.Formats())
	v.SetDefault("report.highlight", "Gate.io")
	v.SetDefault("report.chart_width", 1200)
	v.SetDefault("report.chart_height", 800)

	v.SetDefault("dns.server", constants.DefaultDNSServer)
	v.SetDefault("dns.timeout", constants.DNSTimeout)
	v.SetDefault("dns.record_type", "A")

	// redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "tickerbench:progress")

	// database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tickerbench")
	v.SetDefault("database.password", "tickerbench")
	v.SetDefault("database.dbname", "tickerbench")
	v.SetDefault("database.sslmode", "disable")

	// logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// secondsToDurationHook treats bare numbers as seconds, so "timeout: 3"
// means three seconds rather than three nanoseconds.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}

		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return time.Duration(n * float64(time.Second)), nil
			}
		}
		return data, nil
	}
}

func validateConfig(cfg *Config) error {
	if _, err := cfg.Registry(); err != nil {
		return err
	}

	if err := validateSettings(cfg.Settings()); err != nil {
		return err
	}

	for _, f := range cfg.Report.Formats {
		if !slices.Contains(report.Formats(), strings.ToLower(strings.TrimSpace(f))) {
			return fmt.Errorf("unknown report format %q", f)
		}
	}

	if cfg.Report.OutputDir == "" {
		return errors.New("report output dir is required")
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %s", cfg.Logging.Level)
	}

	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("invalid logging format %s", cfg.Logging.Format)
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	}

	return nil
}

func validateSettings(s domain.RunSettings) error {
	if s.Iterations < 1 {
		return domain.NewConfigurationError("benchmark.iterations",
			fmt.Errorf("%w: got %d", domain.ErrInvalidIterations, s.Iterations))
	}
	if s.Timeout <= 0 {
		return domain.NewConfigurationError("benchmark.timeout",
			fmt.Errorf("%w: got %s", domain.ErrInvalidTimeout, s.Timeout))
	}
	if s.Cooldown < 0 {
		return domain.NewConfigurationError("benchmark.cooldown",
			fmt.Errorf("%w: got %s", domain.ErrNegativeCooldown, s.Cooldown))
	}
	return nil
}

// Registry builds the endpoint registry in configuration order.
func (c *Config) Registry() (*domain.Registry, error) {
	endpoints := make([]domain.EndpointDescriptor, 0, len(c.Endpoints))
	for _, e := range c.Endpoints {
		endpoints = append(endpoints, domain.EndpointDescriptor{
			Name:     e.Name,
			URL:      e.URL,
			Category: domain.Category(strings.ToLower(strings.TrimSpace(e.Category))),
		})
	}
	return domain.NewRegistry(endpoints...)
}

func (c *Config) Settings() domain.RunSettings {
	return domain.RunSettings{
		Iterations: c.Benchmark.Iterations,
		Timeout:    c.Benchmark.Timeout,
		Cooldown:   c.Benchmark.Cooldown,
		Parallel:   c.Benchmark.Parallel,
	}
}

// HasFormat reports whether a report format is enabled.
func (r *ReportConfig) HasFormat(format string) bool {
	for _, f := range r.Formats {
		if strings.EqualFold(strings.TrimSpace(f), format) {
			return true
		}
	}
	return false
}

func (r *ReportConfig) EmitterOptions() report.Options {
	return report.Options{
		OutputDir:   r.OutputDir,
		Prefix:      r.Prefix,
		Formats:     r.Formats,
		Highlight:   r.Highlight,
		ChartWidth:  r.ChartWidth,
		ChartHeight: r.ChartHeight,
	}
}

// возвращает DSN строку для PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// возвращает настройки для Redis клиента
func (r *RedisConfig) GetRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:            r.Addr,
		Password:        r.Password,
		DB:              r.DB,
		DisableIdentity: true,
	}
}
