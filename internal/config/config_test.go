package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Encoding != "latin1" || c.ListenAddr != ":8501" || c.SessionTTLMin != 60 {
		t.Errorf("unexpected defaults: %+v", c)
	}
	p := c.Policy()
	if p.GoodRating != 7 || p.SpeedDivisor != 4 || !p.Clamp || len(p.FairRatings) != 1 || p.FairRatings[0] != 5 {
		t.Errorf("unexpected policy: %+v", p)
	}
	ms := c.MapSettings()
	if ms.Zoom != 9 || ms.CenterLat != 20.866064 || ms.Tiles != "cartodb-positron" {
		t.Errorf("unexpected map settings: %+v", ms)
	}
	// delimiter follows the file extension unless configured
	opt, err := c.LoadOptions()
	if err != nil || c.Delimiter != "auto" || opt.Delimiter != 0 {
		t.Errorf("LoadOptions = %+v, %v (delimiter %q)", opt, err, c.Delimiter)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	yml := "data_path: /data/sitios.csv\nmarker_fair_ratings: [5, 6]\nmarker_speed_divisor: 5\ndelimiter: \";\"\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONECTIVIDAD_LISTEN_ADDR", ":9000")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataPath != "/data/sitios.csv" || c.ListenAddr != ":9000" {
		t.Errorf("file/env not applied: %+v", c)
	}
	if p := c.Policy(); p.SpeedDivisor != 5 || len(p.FairRatings) != 2 {
		t.Errorf("policy = %+v", p)
	}
	if opt, _ := c.LoadOptions(); opt.Delimiter != ';' {
		t.Errorf("delimiter = %q", opt.Delimiter)
	}
}

func TestLoadRejectsInvalidPolicy(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("marker_speed_divisor: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for zero divisor")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c.DataPath = "otro.csv"
	c.MapZoom = 11
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if again.DataPath != "otro.csv" || again.MapZoom != 11 {
		t.Errorf("saved values not reloaded: %+v", again)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	env := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(env, []byte("CONECTIVIDAD_MAP_ZOOM=12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONECTIVIDAD_MAP_ZOOM", "")
	os.Unsetenv("CONECTIVIDAD_MAP_ZOOM")
	if err := LoadEnv(env, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.MapZoom != 12 {
		t.Errorf("zoom = %d, want 12 from .env", c.MapZoom)
	}
}
