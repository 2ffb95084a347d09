package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phinze/axispad/internal/axispad"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

// TestLoadFileMissingUsesDefaults checks a missing file yields one default pad.
func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Pads) != 1 || cfg.Pads[0].ID != "main" {
		t.Fatalf("expected a single main pad, got %+v", cfg.Pads)
	}
	if cfg.Pads[0].Pad() != axispad.DefaultConfig() {
		t.Fatalf("expected default pad config, got %+v", cfg.Pads[0].Pad())
	}
	if cfg.Window.Width != DefaultWidth || cfg.Window.Title != DefaultTitle {
		t.Fatalf("expected default window, got %+v", cfg.Window)
	}
}

// TestLoadFileParsesPads checks pad settings and enum names come through.
func TestLoadFileParsesPads(t *testing.T) {
	path := writeYAML(t, `
window:
  width: 1024
log_events: true
pads:
  - id: left
    size: 200
    control_size: 60
    step_size: 0.1
    initial_touch_type: visual-snap-to-center
    reset_on_release: false
  - id: right
    disable_y: true
    gesture_resolve_mode: absolute
    status_bar_offset: 24
    style:
      knob: "#ff000080"
      stick_width: 0
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !cfg.LogEvents || cfg.Window.Width != 1024 || cfg.Window.Height != DefaultHeight {
		t.Fatalf("unexpected top level %+v", cfg)
	}

	left := cfg.Pads[0].Pad()
	if left.Size != 200 || left.ControlSize != 60 || left.StepSize != 0.1 ||
		left.InitialTouchType != axispad.VisualSnapToCenter || left.ResetOnRelease {
		t.Fatalf("unexpected left pad %+v", left)
	}

	right := cfg.Pads[1].Pad()
	if !right.DisableY || right.GestureResolveMode != axispad.ResolveAbsolute ||
		right.StatusBarOffset != 24 || !right.ResetOnRelease || right.Size != axispad.DefaultSize {
		t.Fatalf("unexpected right pad %+v", right)
	}

	st, err := cfg.Pads[1].Style.Style()
	if err != nil {
		t.Fatalf("Style: %v", err)
	}
	if st.Knob.R != 0xff || st.Knob.A != 0x80 || st.StickWidth != 0 {
		t.Fatalf("unexpected style %+v", st)
	}
}

// TestEnvOverrides checks AXISPAD_* variables win over the file.
func TestEnvOverrides(t *testing.T) {
	path := writeYAML(t, "pads:\n  - id: a\n    size: 200\n  - id: b\n")
	t.Setenv("AXISPAD_SIZE", "240")
	t.Setenv("AXISPAD_TOUCH_TYPE", "snap-to-value")
	t.Setenv("AXISPAD_RESET_ON_RELEASE", "false")
	t.Setenv("AXISPAD_LOG_EVENTS", "1")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !cfg.LogEvents {
		t.Fatalf("expected log events enabled")
	}
	for _, p := range cfg.Pads {
		pc := p.Pad()
		if pc.Size != 240 || pc.InitialTouchType != axispad.SnapToValue || pc.ResetOnRelease {
			t.Fatalf("expected env overrides on pad %s, got %+v", p.ID, pc)
		}
	}
}

// TestEnvOverrideBadValue checks unparsable variables are reported.
func TestEnvOverrideBadValue(t *testing.T) {
	t.Setenv("AXISPAD_STEP_SIZE", "lots")
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "AXISPAD_STEP_SIZE") {
		t.Fatalf("expected AXISPAD_STEP_SIZE error, got %v", err)
	}
}

// TestLoadFileRejectsInvalidPads checks validation errors name the pad.
func TestLoadFileRejectsInvalidPads(t *testing.T) {
	path := writeYAML(t, "pads:\n  - id: bad\n    step_size: 2\n")
	_, err := LoadFile(path)
	if !errors.Is(err, axispad.ErrInvalidConfig) || !strings.Contains(err.Error(), "pad bad") {
		t.Fatalf("expected wrapped ErrInvalidConfig for pad bad, got %v", err)
	}

	path = writeYAML(t, "pads:\n  - id: a\n  - id: a\n")
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	path = writeYAML(t, "pads:\n  - id: a\n    style:\n      knob: purple\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected bad colour to fail")
	}

	path = writeYAML(t, "pads:\n  - id: a\n    initial_touch_type: sideways\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected unknown touch type to fail")
	}
}

// TestWriteFileRoundTrip checks a written config loads back unchanged.
func TestWriteFileRoundTrip(t *testing.T) {
	off := false
	want := Default()
	want.LogEvents = true
	want.Pads = append(want.Pads, PadConfig{
		ID:               "second",
		Size:             180,
		DisableX:         true,
		InitialTouchType: axispad.SnapToValue,
		ResetOnRelease:   &off,
	})

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got.Pads) != 2 || got.Pads[1].Pad() != want.Pads[1].Pad() || !got.LogEvents {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
