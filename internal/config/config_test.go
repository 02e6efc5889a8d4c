package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "looker", cfg.Site)
	assert.Equal(t, "per_day", cfg.Mode)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaws.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site: ga4
report_url: https://analytics.google.com/p123
mode: range
timeout_seconds: 90
history_db: runs.db
browser:
  bin_path: /usr/bin/brave
  profile_dir: Profile 3
  show_ui: true
tuning:
  stable_threshold: 3
  max_scroll_steps: 120
  max_table_pages: 4
  scroll_step: 350
  max_month_steps: 24
  settle_timeout_seconds: 7
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ga4", cfg.Site)
	assert.Equal(t, "https://analytics.google.com/p123", cfg.ReportURL)
	assert.Equal(t, "range", cfg.Mode)
	assert.Equal(t, 90, cfg.TimeoutSeconds)
	assert.Equal(t, "runs.db", cfg.HistoryDB)
	assert.Equal(t, "/usr/bin/brave", cfg.Browser.BinPath)
	assert.Equal(t, "Profile 3", cfg.Browser.ProfileDir)
	assert.True(t, cfg.Browser.ShowUI)

	assert.Equal(t, 3, cfg.Tuning.StableThreshold)
	assert.Equal(t, 120, cfg.Tuning.MaxScrollSteps)
	assert.Equal(t, 4, cfg.Tuning.MaxTablePages)
	assert.Equal(t, 350.0, cfg.Tuning.ScrollStep)
	assert.Equal(t, 24, cfg.Tuning.MaxMonthSteps)
	assert.Equal(t, 7, cfg.Tuning.SettleTimeoutSeconds)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
