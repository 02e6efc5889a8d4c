// Package config loads CLI defaults from an optional YAML file plus
// GAWS_* environment variables. Flags still win; the file only seeds
// settings the user did not pass.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config mirrors the settings the root command accepts.
type Config struct {
	Site      string `mapstructure:"site"`
	ReportURL string `mapstructure:"report_url"`
	Mode      string `mapstructure:"mode"`
	Output    string `mapstructure:"output"`

	Browser struct {
		BinPath     string `mapstructure:"bin_path"`
		UserDataDir string `mapstructure:"user_data_dir"`
		ProfileDir  string `mapstructure:"profile_dir"`
		ProxyURL    string `mapstructure:"proxy_url"`
		ShowUI      bool   `mapstructure:"show_ui"`
	} `mapstructure:"browser"`

	// Tuning exposes the capture knobs. Zero values keep each
	// component's defaults.
	Tuning struct {
		StableThreshold      int     `mapstructure:"stable_threshold"`
		MaxScrollSteps       int     `mapstructure:"max_scroll_steps"`
		MaxTablePages        int     `mapstructure:"max_table_pages"`
		ScrollStep           float64 `mapstructure:"scroll_step"`
		MaxMonthSteps        int     `mapstructure:"max_month_steps"`
		SettleTimeoutSeconds int     `mapstructure:"settle_timeout_seconds"`
	} `mapstructure:"tuning"`

	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	HistoryDB      string `mapstructure:"history_db"`
	SnapshotDir    string `mapstructure:"snapshot_dir"`
}

// Load reads path if given, else looks for gaws.yaml next to the binary
// and under ~/.config/gaws/. A missing file is not an error unless it
// was requested explicitly.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GAWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("site", "looker")
	v.SetDefault("mode", "per_day")
	v.SetDefault("timeout_seconds", 60)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gaws")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gaws"))
		}
		var nf viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
