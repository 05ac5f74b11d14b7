package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is the path to the canonical dashboard defaults file.
const DefaultConfigPath = "config/dashboard.defaults.json"

// Built-in defaults used when a field is absent from the config file.
const (
	DefaultDensityCSV      = "data/MYE5_Table8.csv"
	DefaultAgeGenderCSV    = "data/MYEB1_Table9.csv"
	DefaultListen          = ":8080"
	DefaultAgeLocation     = "ENGLAND"
	DefaultPNGWidthInches  = 8.0
	DefaultPNGHeightInches = 5.0
	maxPNGDimensionInches  = 40.0
	maxConfigFileSize      = 1 * 1024 * 1024 // 1MB
)

// DefaultLocations are the pre-selected geographies for the density and
// gender charts.
var DefaultLocations = []string{"ENGLAND", "SCOTLAND", "WALES", "NORTHERN IRELAND"}

// DashboardConfig is the root configuration for the dashboard server.
// Every field is optional; the Get* methods fall back to built-in defaults.
type DashboardConfig struct {
	// Input tables
	DensityCSV   *string `json:"density_csv,omitempty"`
	AgeGenderCSV *string `json:"age_gender_csv,omitempty"`

	// HTTP
	Listen     *string `json:"listen,omitempty"` // host:port
	AssetsHost *string `json:"assets_host,omitempty"`

	// Optional sqlite snapshot of the preprocessed tables
	SnapshotDB *string `json:"snapshot_db,omitempty"`

	// Widget defaults
	DefaultLocations   []string `json:"default_locations,omitempty"`
	DefaultAgeLocation *string  `json:"default_age_location,omitempty"`

	// PNG rendering
	PNGWidthInches  *float64 `json:"png_width_inches,omitempty"`
	PNGHeightInches *float64 `json:"png_height_inches,omitempty"`
}

func ptrString(v string) *string { return &v }

// EmptyDashboardConfig returns a DashboardConfig with all fields unset.
func EmptyDashboardConfig() *DashboardConfig {
	return &DashboardConfig{}
}

// LoadDashboardConfig loads a DashboardConfig from a JSON file. The file must
// have a .json extension and be under 1MB. Fields omitted from the file keep
// their defaults, so partial configs are safe.
func LoadDashboardConfig(path string) (*DashboardConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDashboardConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *DashboardConfig) Validate() error {
	if c.DensityCSV != nil && strings.TrimSpace(*c.DensityCSV) == "" {
		return fmt.Errorf("density_csv must not be empty")
	}
	if c.AgeGenderCSV != nil && strings.TrimSpace(*c.AgeGenderCSV) == "" {
		return fmt.Errorf("age_gender_csv must not be empty")
	}

	if c.Listen != nil {
		if _, _, err := net.SplitHostPort(*c.Listen); err != nil {
			return fmt.Errorf("invalid listen address '%s': %w", *c.Listen, err)
		}
	}

	if c.SnapshotDB != nil && *c.SnapshotDB != "" {
		if ext := filepath.Ext(*c.SnapshotDB); ext != ".db" && ext != ".sqlite" {
			return fmt.Errorf("snapshot_db must have .db or .sqlite extension, got %q", ext)
		}
	}

	for i, loc := range c.DefaultLocations {
		if strings.TrimSpace(loc) == "" {
			return fmt.Errorf("default_locations[%d] must not be empty", i)
		}
	}

	for name, v := range map[string]*float64{
		"png_width_inches":  c.PNGWidthInches,
		"png_height_inches": c.PNGHeightInches,
	} {
		if v != nil && (*v <= 0 || *v > maxPNGDimensionInches) {
			return fmt.Errorf("%s must be in (0, %g], got %g", name, maxPNGDimensionInches, *v)
		}
	}

	return nil
}

// GetDensityCSV returns the density table path or the default.
func (c *DashboardConfig) GetDensityCSV() string {
	if c.DensityCSV == nil {
		return DefaultDensityCSV
	}
	return *c.DensityCSV
}

// GetAgeGenderCSV returns the age/gender table path or the default.
func (c *DashboardConfig) GetAgeGenderCSV() string {
	if c.AgeGenderCSV == nil {
		return DefaultAgeGenderCSV
	}
	return *c.AgeGenderCSV
}

// GetListen returns the listen address or the default.
func (c *DashboardConfig) GetListen() string {
	if c.Listen == nil {
		return DefaultListen
	}
	return *c.Listen
}

// GetAssetsHost returns the echarts assets host. Empty means the renderer's
// default CDN.
func (c *DashboardConfig) GetAssetsHost() string {
	if c.AssetsHost == nil {
		return ""
	}
	return *c.AssetsHost
}

// GetSnapshotDB returns the snapshot database path; empty disables snapshots.
func (c *DashboardConfig) GetSnapshotDB() string {
	if c.SnapshotDB == nil {
		return ""
	}
	return *c.SnapshotDB
}

// GetDefaultLocations returns a copy of the pre-selected locations.
func (c *DashboardConfig) GetDefaultLocations() []string {
	if len(c.DefaultLocations) == 0 {
		return append([]string(nil), DefaultLocations...)
	}
	return append([]string(nil), c.DefaultLocations...)
}

// GetDefaultAgeLocation returns the pre-selected age chart location.
func (c *DashboardConfig) GetDefaultAgeLocation() string {
	if c.DefaultAgeLocation == nil || *c.DefaultAgeLocation == "" {
		return DefaultAgeLocation
	}
	return *c.DefaultAgeLocation
}

// GetPNGWidthInches returns the PNG width in inches.
func (c *DashboardConfig) GetPNGWidthInches() float64 {
	if c.PNGWidthInches == nil {
		return DefaultPNGWidthInches
	}
	return *c.PNGWidthInches
}

// GetPNGHeightInches returns the PNG height in inches.
func (c *DashboardConfig) GetPNGHeightInches() float64 {
	if c.PNGHeightInches == nil {
		return DefaultPNGHeightInches
	}
	return *c.PNGHeightInches
}

// Override applies non-empty command line values on top of the file config.
func (c *DashboardConfig) Override(densityCSV, ageGenderCSV, listen, snapshotDB string) {
	if densityCSV != "" {
		c.DensityCSV = ptrString(densityCSV)
	}
	if ageGenderCSV != "" {
		c.AgeGenderCSV = ptrString(ageGenderCSV)
	}
	if listen != "" {
		c.Listen = ptrString(listen)
	}
	if snapshotDB != "" {
		c.SnapshotDB = ptrString(snapshotDB)
	}
}
