package scene

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/lights"
	"github.com/mkral/go-sunsky-pathtracer/pkg/loaders"
	"github.com/mkral/go-sunsky-pathtracer/pkg/renderer"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// Config is the TOML render configuration
type Config struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Samples  int    `toml:"samples"`
	MaxDepth int    `toml:"max_depth"`
	Seed     uint32 `toml:"seed"`

	RussianRoulette           bool `toml:"russian_roulette"`
	RussianRouletteMinBounces int  `toml:"russian_roulette_min_bounces"`

	Stratified bool   `toml:"stratified"`
	Strata     uint32 `toml:"strata"`

	// Model is the path of a glTF or GLB file; empty selects the built-in
	// test scene
	Model string `toml:"model"`

	Camera CameraConfig `toml:"camera"`
	Sun    *SunConfig   `toml:"sun"`
	Sky    *SkyConfig   `toml:"sky"`
}

// CameraConfig positions the pinhole camera
type CameraConfig struct {
	LookFrom [3]float64 `toml:"look_from"`
	LookAt   [3]float64 `toml:"look_at"`
	Up       [3]float64 `toml:"up"`
	VFOV     float64    `toml:"vfov"` // vertical field of view, degrees
}

// SunConfig places the sun disc. Angles are in degrees.
type SunConfig struct {
	Elevation     float64    `toml:"elevation"`
	Azimuth       float64    `toml:"azimuth"`
	AngularRadius float64    `toml:"angular_radius"`
	Color         [3]float64 `toml:"color"`
	Strength      float64    `toml:"strength"`
}

// SkyConfig selects the environment dome: an HDR file, or a solid color
type SkyConfig struct {
	HDR      string     `toml:"hdr"`
	Color    [3]float64 `toml:"color"`
	Strength float64    `toml:"strength"`
	Rotation float64    `toml:"rotation"` // degrees around the vertical axis
}

// DefaultConfig returns a renderable starting point: built-in scene, midday
// sun, pale blue sky
func DefaultConfig() Config {
	return Config{
		Width:                     800,
		Height:                    450,
		Samples:                   64,
		MaxDepth:                  8,
		RussianRoulette:           true,
		RussianRouletteMinBounces: 2,
		Stratified:                true,
		Strata:                    7,
		Camera: CameraConfig{
			LookFrom: [3]float64{0, 1.5, 4},
			LookAt:   [3]float64{0, 0.5, 0},
			Up:       [3]float64{0, 1, 0},
			VFOV:     40,
		},
		Sun: &SunConfig{
			Elevation:     45,
			Azimuth:       30,
			AngularRadius: 0.27,
			Color:         [3]float64{1, 0.95, 0.9},
			Strength:      50,
		},
		Sky: &SkyConfig{
			Color:    [3]float64{0.4, 0.6, 0.9},
			Strength: 1,
		},
	}
}

// LoadConfig reads and parses a TOML config file on top of the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SamplingConfig converts the config's sampling fields for the renderer
func (c *Config) SamplingConfig() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		SamplesPerPixel:           c.Samples,
		MaxDepth:                  c.MaxDepth,
		Seed:                      c.Seed,
		RussianRoulette:           c.RussianRoulette,
		RussianRouletteMinBounces: c.RussianRouletteMinBounces,
		Stratified:                c.Stratified,
		Strata:                    c.Strata,
	}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func vec3FromArray(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// BuildScene assembles a renderable scene from the configuration
func BuildScene(cfg Config, logger core.Logger) (*Scene, error) {
	camera := renderer.NewCamera(
		vec3FromArray(cfg.Camera.LookFrom),
		vec3FromArray(cfg.Camera.LookAt),
		vec3FromArray(cfg.Camera.Up),
		cfg.Camera.VFOV,
		float64(cfg.Width)/float64(cfg.Height),
	)

	lightList, err := buildLights(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Model == "" {
		shapes, textures := builtinShapes()
		return New(camera, shapes, lightList, textures), nil
	}

	model, err := loaders.LoadGLTF(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	logger.Printf("Loaded %s: %d triangles, %d materials, %d textures\n",
		cfg.Model, len(model.Shapes), len(model.Materials), model.Textures.Count())

	return New(camera, model.Shapes, lightList, model.Textures), nil
}

// buildLights creates the sun and sky lights named by the config
func buildLights(cfg Config, logger core.Logger) ([]lights.Light, error) {
	var lightList []lights.Light

	if cfg.Sun != nil && cfg.Sun.Strength > 0 {
		lightList = append(lightList, lights.NewSunLight(
			degToRad(cfg.Sun.Elevation),
			degToRad(cfg.Sun.Azimuth),
			degToRad(cfg.Sun.AngularRadius),
			vec3FromArray(cfg.Sun.Color),
			cfg.Sun.Strength,
		))
	}

	if cfg.Sky != nil && cfg.Sky.Strength > 0 {
		var skyTex *texture.Texture
		if cfg.Sky.HDR != "" {
			tex, err := loaders.LoadHDR(cfg.Sky.HDR)
			if err != nil {
				return nil, fmt.Errorf("failed to load sky: %w", err)
			}
			logger.Printf("Loaded sky %s: %dx%d\n", cfg.Sky.HDR, tex.Width, tex.Height)
			skyTex = tex
		} else {
			c := cfg.Sky.Color
			skyTex = texture.NewSolidTexture(texture.RGBA{R: c[0], G: c[1], B: c[2], A: 1})
		}
		lightList = append(lightList, lights.NewSkyLight(skyTex, cfg.Sky.Strength, degToRad(cfg.Sky.Rotation)))
	}

	return lightList, nil
}
