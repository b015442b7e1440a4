package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/report"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: tickerbench\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Benchmark.Iterations)
	assert.Equal(t, 3*time.Second, cfg.Benchmark.Timeout)
	assert.Equal(t, time.Second, cfg.Benchmark.Cooldown)
	assert.False(t, cfg.Benchmark.Parallel)
	assert.True(t, cfg.Benchmark.TrackFields)
	assert.Equal(t, "results", cfg.Report.OutputDir)
	assert.Equal(t, "Gate.io", cfg.Report.Highlight)
	assert.True(t, cfg.Report.HasFormat(report.FormatCSV))
	assert.True(t, cfg.Report.HasFormat(report.FormatMarkdown))
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"Gate.io", "Binance", "Kraken"}, reg.Names())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
benchmark:
  iterations: 5
  timeout: 2
  cooldown: 250ms
  parallel: true
  track_fields: false
endpoints:
  - name: Alpha
    url: http://alpha.local/ticker
    category: Ticker
  - name: Alpha
    url: http://alpha.local/book
    category: orderbook
  - name: Beta
    url: https://beta.local/ticker
report:
  formats: [csv, markdown]
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	settings := cfg.Settings()
	assert.Equal(t, 5, settings.Iterations)
	assert.Equal(t, 2*time.Second, settings.Timeout)
	assert.Equal(t, 250*time.Millisecond, settings.Cooldown)
	assert.True(t, settings.Parallel)
	assert.False(t, cfg.Benchmark.TrackFields)

	assert.True(t, cfg.Report.HasFormat("csv"))
	assert.False(t, cfg.Report.HasFormat("xlsx"))

	reg, err := cfg.Registry()
	require.NoError(t, err)
	eps := reg.Endpoints()
	require.Len(t, eps, 3)
	assert.Equal(t, domain.CategoryTicker, eps[0].Category)
	assert.Equal(t, domain.CategoryOrderbook, eps[1].Category)
	assert.Equal(t, domain.CategoryNone, eps[2].Category)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "benchmark:\n  iterations: 5\n")
	t.Setenv("TICKERBENCH_BENCHMARK_ITERATIONS", "7")
	t.Setenv("TICKERBENCH_BENCHMARK_COOLDOWN", "0")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Benchmark.Iterations)
	assert.Equal(t, time.Duration(0), cfg.Benchmark.Cooldown)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "benchmark:\n  iterations: 5\n")
	t.Setenv("TICKERBENCH_BENCHMARK_ITERATIONS", "7")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("iterations", 3, "")
	flags.String("timeout", "3", "")
	flags.Bool("parallel", false, "")
	require.NoError(t, flags.Parse([]string{"--iterations", "9", "--timeout", "0.5"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Benchmark.Iterations)
	assert.Equal(t, 500*time.Millisecond, cfg.Benchmark.Timeout)
	assert.False(t, cfg.Benchmark.Parallel)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "zero iterations",
			body:    "benchmark:\n  iterations: 0\n",
			wantErr: domain.ErrInvalidIterations,
		},
		{
			name:    "zero timeout",
			body:    "benchmark:\n  timeout: 0s\n",
			wantErr: domain.ErrInvalidTimeout,
		},
		{
			name:    "negative cooldown",
			body:    "benchmark:\n  cooldown: -1s\n",
			wantErr: domain.ErrNegativeCooldown,
		},
		{
			name: "duplicate endpoint",
			body: `
endpoints:
  - name: A
    url: http://a.local
  - name: A
    url: http://a2.local
`,
			wantErr: domain.ErrDuplicateEndpoint,
		},
		{
			name: "bad url",
			body: `
endpoints:
  - name: A
    url: ftp://a.local
`,
			wantErr: domain.ErrInvalidEndpoint,
		},
		{
			name:    "unknown format",
			body:    "report:\n  formats: [pdf]\n",
			wantMsg: "unknown report format",
		},
		{
			name:    "bad log level",
			body:    "logging:\n  level: loud\n",
			wantMsg: "invalid logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body), nil)
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "bench", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=bench sslmode=disable", d.DSN())
}

func TestRedisConfig_Options(t *testing.T) {
	r := RedisConfig{Addr: "cache:6379", Password: "secret", DB: 2}
	opts := r.GetRedisOptions()
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}
