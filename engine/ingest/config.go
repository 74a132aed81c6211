package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jma1999/RIG/engine/spatial"
)

// DefaultWorkers bounds concurrent node upserts during a pass.
const DefaultWorkers = 8

// Config controls a resolution pass. Zero values fall back to defaults
// via ApplyDefaults.
type Config struct {
	// Source tags every upserted node's "source" property.
	Source string `yaml:"source"`

	// Workers bounds concurrent node upserts.
	Workers int `yaml:"workers"`

	// Tolerances for zone containment and the nearest-zone fallback.
	TolXY       float64 `yaml:"tol_xy"`
	TolZ        float64 `yaml:"tol_z"`
	MaxZGap     float64 `yaml:"max_z_gap"`
	MaxXYDistSq float64 `yaml:"max_xy_dist_sq"`

	// Refreshable property keys are always overwritten on upsert instead
	// of following the fill-if-absent policy.
	Refreshable []string `yaml:"refreshable"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Source == "" {
		c.Source = "model"
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.TolXY == 0 {
		c.TolXY = spatial.DefaultTolXY
	}
	if c.TolZ == 0 {
		c.TolZ = spatial.DefaultTolZ
	}
}

// Tolerances builds the spatial tolerances from the config.
func (c Config) Tolerances() spatial.Tolerances {
	return spatial.Tolerances{
		TolXY:       c.TolXY,
		TolZ:        c.TolZ,
		MaxZGap:     c.MaxZGap,
		MaxXYDistSq: c.MaxXYDistSq,
	}
}

// LoadConfig reads a YAML config file and applies defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
