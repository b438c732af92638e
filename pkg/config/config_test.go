package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/burin-project/burin-go/pkg/dialect"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom missing file: %v", err)
	}
	if cfg == nil || cfg.Profiles == nil {
		t.Fatal("expected empty config with initialized map")
	}
}

func TestLoadFromParsesProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
default-profile: diode
profiles:
  diode:
    work-width: 400
    work-height: 400
    power-max: 800
    poll-interval: 500ms
dialects:
  /dev/ttyUSB0: marlin
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	p := cfg.Profile("")
	if p.WorkWidth != 400 || p.WorkHeight != 400 {
		t.Errorf("work area = %gx%g, want 400x400", p.WorkWidth, p.WorkHeight)
	}
	if p.PowerMax != 800 {
		t.Errorf("PowerMax = %d, want 800", p.PowerMax)
	}
	if p.PollInterval.Std() != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", p.PollInterval.Std())
	}
	// Unset fields take defaults.
	if p.LineSpacing != 0.1 {
		t.Errorf("LineSpacing = %g, want 0.1", p.LineSpacing)
	}
	if p.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", p.BaudRate)
	}

	d, ok := cfg.DialectFor("/dev/ttyUSB0")
	if !ok || d != dialect.Marlin {
		t.Errorf("DialectFor = %v, %v, want Marlin, true", d, ok)
	}
	if _, ok := cfg.DialectFor("/dev/ttyUSB1"); ok {
		t.Error("DialectFor returned override for unconfigured address")
	}
}

func TestLoadFromRejectsInvertedPowerBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
profiles:
  bad:
    power-min: 900
    power-max: 100
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for inverted power bounds")
	}
}

func TestLoadFromRejectsUnknownDialect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
dialects:
  /dev/ttyUSB0: reprap
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for unknown dialect name")
	}
}

func TestProfileFallsBackToBuiltin(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{}}
	p := cfg.Profile("missing")
	if p != DefaultProfile() {
		t.Errorf("Profile(missing) = %+v, want built-in default", p)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := &Config{
		DefaultProfile: "co2",
		Profiles: map[string]Profile{
			"co2": {WorkWidth: 600, WorkHeight: 400, PowerMax: 1000},
		},
		Dialects: map[string]string{"192.168.1.50:23": "ruida"},
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.DefaultProfile != "co2" {
		t.Errorf("DefaultProfile = %q", loaded.DefaultProfile)
	}
	if loaded.Profiles["co2"].WorkWidth != 600 {
		t.Errorf("WorkWidth = %g", loaded.Profiles["co2"].WorkWidth)
	}
	if d, ok := loaded.DialectFor("192.168.1.50:23"); !ok || d != dialect.Ruida {
		t.Errorf("DialectFor = %v, %v", d, ok)
	}
}
