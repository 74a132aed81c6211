package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jma1999/RIG/engine/spatial"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Source != "model" {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.TolXY != spatial.DefaultTolXY || cfg.TolZ != spatial.DefaultTolZ {
		t.Errorf("tolerances = %v/%v", cfg.TolXY, cfg.TolZ)
	}
	if cfg.MaxZGap != 0 || cfg.MaxXYDistSq != 0 {
		t.Error("fallback gates default to unbounded")
	}
}

func TestApplyDefaultsKeepsExplicit(t *testing.T) {
	cfg := Config{Source: "model-a", Workers: 2, TolXY: 0.5, TolZ: 2}
	cfg.ApplyDefaults()

	if cfg.Source != "model-a" || cfg.Workers != 2 || cfg.TolXY != 0.5 || cfg.TolZ != 2 {
		t.Errorf("explicit values must survive: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	data := []byte(`
source: hospital-l2
workers: 4
tol_xy: 0.25
max_z_gap: 5
refreshable: [type, z]
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source != "hospital-l2" || cfg.Workers != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TolXY != 0.25 {
		t.Errorf("TolXY = %v", cfg.TolXY)
	}
	if cfg.TolZ != spatial.DefaultTolZ {
		t.Errorf("unset TolZ should default, got %v", cfg.TolZ)
	}
	if cfg.MaxZGap != 5 {
		t.Errorf("MaxZGap = %v", cfg.MaxZGap)
	}
	if len(cfg.Refreshable) != 2 {
		t.Errorf("Refreshable = %v", cfg.Refreshable)
	}

	tol := cfg.Tolerances()
	if tol.TolXY != 0.25 || tol.MaxZGap != 5 {
		t.Errorf("Tolerances() = %+v", tol)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
