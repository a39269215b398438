package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/geometry"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
width = 320
height = 240
samples = 16
seed = 99

[camera]
look_from = [1.0, 2.0, 3.0]
vfov = 55.0

[sun]
elevation = 30.0
strength = 20.0

[sky]
color = [0.1, 0.2, 0.3]
strength = 2.0
rotation = 90.0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Width = 320
	want.Height = 240
	want.Samples = 16
	want.Seed = 99
	want.Camera.LookFrom = [3]float64{1, 2, 3}
	want.Camera.VFOV = 55
	want.Sun.Elevation = 30
	want.Sun.Strength = 20
	want.Sky.Color = [3]float64{0.1, 0.2, 0.3}
	want.Sky.Strength = 2
	want.Sky.Rotation = 90

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_PartialTablesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
[sun]
strength = 5.0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sun.Strength != 5 {
		t.Errorf("sun strength = %f, want 5", cfg.Sun.Strength)
	}
	if cfg.Sun.Elevation != DefaultConfig().Sun.Elevation {
		t.Errorf("sun elevation = %f, want default preserved", cfg.Sun.Elevation)
	}
	if cfg.Width != 800 || cfg.Samples != 64 {
		t.Error("unrelated defaults were not preserved")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfig_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "width = = 5")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestConfig_SamplingConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Samples = 32
	cfg.Seed = 11

	sc := cfg.SamplingConfig()
	if sc.SamplesPerPixel != 32 || sc.Seed != 11 || sc.MaxDepth != 8 {
		t.Errorf("sampling config %+v does not mirror the render config", sc)
	}
	if !sc.RussianRoulette || sc.RussianRouletteMinBounces != 2 {
		t.Errorf("roulette settings %+v not carried over", sc)
	}
	if !sc.Stratified || sc.Strata != 7 {
		t.Errorf("stratification settings %+v not carried over", sc)
	}
}

func TestBuildScene_BuiltinScene(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 100
	cfg.Height = 100

	sc, err := BuildScene(cfg, testLogger{})
	if err != nil {
		t.Fatal(err)
	}
	if sc.Camera() == nil {
		t.Fatal("scene has no camera")
	}
	if len(sc.Lights()) != 2 {
		t.Fatalf("light count = %d, want sun and sky", len(sc.Lights()))
	}

	// A ray from the camera down at the ground must hit something
	var rec geometry.HitRecord
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	if !sc.Hit(ray, 0.001, math.Inf(1), &rec) {
		t.Error("built-in scene has no geometry under the origin")
	}
	if rec.Material == nil {
		t.Error("hit record carries no material")
	}
}

func TestBuildScene_DisabledLights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sun = nil
	cfg.Sky.Strength = 0

	sc, err := BuildScene(cfg, testLogger{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Lights()) != 0 {
		t.Errorf("light count = %d, want none", len(sc.Lights()))
	}
}

type testLogger struct{}

func (testLogger) Printf(format string, v ...interface{}) {}
