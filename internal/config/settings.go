// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/haulwatch/haulwatch/internal/common"
)

// RunSettings holds the resolved inputs and outputs for a resolution run.
// Values come from Viper (config file, HAULWATCH_ env vars, or flags) with
// paths expanded.
type RunSettings struct {
	InvoicesPath  string
	VendorsPath   string
	LocationsPath string
	OverridesPath string
	OutputDir     string
	DatabasePath  string
	ReferenceDate string
	Workers       int
}

// LoadRunSettings reads run configuration from Viper and validates that the
// required inputs are present.
func LoadRunSettings() (*RunSettings, error) {
	settings := &RunSettings{
		InvoicesPath:  ExpandPath(viper.GetString("inputs.invoices")),
		VendorsPath:   ExpandPath(viper.GetString("inputs.vendors")),
		LocationsPath: ExpandPath(viper.GetString("inputs.locations")),
		OverridesPath: ExpandPath(viper.GetString("inputs.overrides")),
		OutputDir:     ExpandPath(viper.GetString("output.dir")),
		DatabasePath:  DatabasePath(),
		ReferenceDate: viper.GetString("run.reference_date"),
		Workers:       viper.GetInt("run.workers"),
	}

	if settings.OutputDir == "" {
		settings.OutputDir = "reports"
	}

	if settings.InvoicesPath == "" {
		return nil, fmt.Errorf("%w: inputs.invoices", common.ErrMissingConfig)
	}
	if settings.VendorsPath == "" {
		return nil, fmt.Errorf("%w: inputs.vendors", common.ErrMissingConfig)
	}
	if settings.LocationsPath == "" {
		return nil, fmt.Errorf("%w: inputs.locations", common.ErrMissingConfig)
	}
	if settings.Workers < 0 {
		return nil, fmt.Errorf("%w: run.workers must not be negative", common.ErrInvalidConfig)
	}

	return settings, nil
}

// ExpandPath expands a leading ~ and any $VAR environment references in a
// file path, so config values like "~/data/$SITE/invoices.csv" resolve.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// DatabasePath returns the run store location, defaulting under the user's
// data directory.
func DatabasePath() string {
	if p := viper.GetString("database.path"); p != "" {
		return ExpandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "haulwatch.db"
	}
	return filepath.Join(home, ".local", "share", "haulwatch", "haulwatch.db")
}
