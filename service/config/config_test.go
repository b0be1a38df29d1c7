package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sm "github.com/martinozimek/india-etf/service/models"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ETF_DIR", "GDP_PATH", "OUTPUT_DIR", "EXPORT_FORMAT", "ETF_LIST",
		"ROLLING_WINDOW", "MIN_OVERLAP", "ETF_SKIP_ROWS", "PERMUTATIONS", "SEED", "LOG_LEVEL", "RENDER_CHARTS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.EtfDir)
	assert.Equal(t, "data/processed_gdp_quarterly.csv", cfg.GdpPath)
	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, "csv", cfg.ExportFormat)
	assert.Empty(t, cfg.EtfList)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.RenderCharts)
	assert.Equal(t, sm.DefaultAnalysisSettings(), cfg.Settings())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ROLLING_WINDOW", "12")
	t.Setenv("MIN_OVERLAP", "4")
	t.Setenv("EXPORT_FORMAT", "parquet")
	t.Setenv("RENDER_CHARTS", "false")
	t.Setenv("PERMUTATIONS", "0")
	t.Setenv("SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.RollingWindow)
	assert.Equal(t, 4, cfg.MinOverlap)
	assert.Equal(t, "parquet", cfg.ExportFormat)
	assert.False(t, cfg.RenderCharts)
	assert.Equal(t, 0, cfg.Settings().Permutations)
	assert.Equal(t, uint64(42), cfg.Settings().Seed)
}

func TestLoadRejectsMalformedNumber(t *testing.T) {
	t.Setenv("ROLLING_WINDOW", "eight")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		GdpPath:       "gdp.csv",
		OutputDir:     "out",
		ExportFormat:  "json",
		RollingWindow: 2,
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"window":     func(c *Config) { c.RollingWindow = 1 },
		"overlap":    func(c *Config) { c.MinOverlap = -1 },
		"skip rows":  func(c *Config) { c.EtfSkipRows = -2 },
		"shuffles":   func(c *Config) { c.Permutations = -1 },
		"format":     func(c *Config) { c.ExportFormat = "xml" },
		"gdp path":   func(c *Config) { c.GdpPath = "" },
		"output dir": func(c *Config) { c.OutputDir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSourcesPrefersEtfList(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "NIFTYBEES_daily.csv")
	listPath := filepath.Join(dir, "etfs.yaml")
	require.NoError(t, os.WriteFile(listPath, []byte("etfs:\n  - id: BANKBEES\n"), 0o644))

	cfg := Config{EtfDir: dir, EtfList: listPath}
	sources, err := cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, []sm.EtfSource{{Id: "BANKBEES", Path: filepath.Join(dir, "BANKBEES_daily.csv")}}, sources)

	cfg.EtfList = ""
	sources, err = cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, []sm.EtfSource{{Id: "NIFTYBEES", Path: filepath.Join(dir, "NIFTYBEES_daily.csv")}}, sources)
}

// Helper: creates an empty file
func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}
