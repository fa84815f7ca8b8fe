package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lenia/engine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Size != 256 {
		t.Errorf("grid size = %d, want 256", cfg.Grid.Size)
	}
	if cfg.Params != engine.DefaultParams() {
		t.Errorf("params = %+v, want engine defaults", cfg.Params)
	}
	if cfg.Derived.Spread != engine.DefaultSpread() {
		t.Errorf("spread = %+v, want engine defaults", cfg.Derived.Spread)
	}
	if cfg.Derived.Cells != 256*256 {
		t.Errorf("cells = %d", cfg.Derived.Cells)
	}
	if cfg.Derived.ScreenW32 != float32(cfg.Screen.Width) || cfg.Derived.ScreenH32 != float32(cfg.Screen.Height) {
		t.Errorf("screen = %vx%v, want %dx%d", cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, cfg.Screen.Width, cfg.Screen.Height)
	}
	if len(cfg.Scene) == 0 || cfg.Scene[0].Scale != 1 {
		t.Errorf("default scene = %+v", cfg.Scene)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	data := []byte(`
grid:
  size: 64
params:
  r: 8
multi:
  enabled: true
scene:
  - kind: circle
    x: 0.25
    y: 0.75
    radius: 3
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Size != 64 || cfg.Params.R != 8 || !cfg.Multi.Enabled {
		t.Errorf("overrides not applied: %+v %+v %+v", cfg.Grid, cfg.Params, cfg.Multi)
	}
	// Untouched keys keep their defaults
	if cfg.Params.Mu != 0.15 || cfg.Grid.TableResolution != 2048 {
		t.Errorf("defaults lost: %+v %+v", cfg.Params, cfg.Grid)
	}
	if len(cfg.Scene) != 1 || cfg.Scene[0].Kind != "circle" || cfg.Scene[0].Value != 1 {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if cfg.Derived.Cells != 64*64 {
		t.Errorf("derived not recomputed: %d", cfg.Derived.Cells)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Params.Sigma = 0.02
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Params != cfg.Params {
		t.Errorf("params = %+v, want %+v", got.Params, cfg.Params)
	}
	if got.Bookmarks != cfg.Bookmarks {
		t.Errorf("bookmarks = %+v, want %+v", got.Bookmarks, cfg.Bookmarks)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg did not panic before Init")
		}
	}()
	Cfg()
}
