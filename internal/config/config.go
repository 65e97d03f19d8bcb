// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/taigrr/teapot/pkg/camera"
	"github.com/taigrr/teapot/pkg/loader"
	"github.com/taigrr/teapot/pkg/math3d"
	"github.com/taigrr/teapot/pkg/render"
	"github.com/taigrr/teapot/pkg/transform"
)

// Config holds all viewer settings.
type Config struct {
	Model   string        `yaml:"model"`
	Cubemap CubemapConfig `yaml:"cubemap"`
	View    ViewConfig    `yaml:"view"`
	Shading ShadingConfig `yaml:"shading"`
	Remote  RemoteConfig  `yaml:"remote"`
	Logging LoggingConfig `yaml:"logging"`
}

// CubemapConfig locates the six environment faces. Faces, when set, lists
// explicit sources in pos-x, neg-x, pos-y, neg-y, pos-z, neg-z order and
// overrides Dir and Ext.
type CubemapConfig struct {
	Dir      string   `yaml:"dir"`
	Ext      string   `yaml:"ext"`
	Faces    []string `yaml:"faces,omitempty"`
	FaceSize int      `yaml:"face_size"`
}

// ViewConfig holds camera and projection settings.
type ViewConfig struct {
	FPS         int        `yaml:"fps"`
	FOVDegrees  float64    `yaml:"fov_degrees"`
	Near        float64    `yaml:"near"`
	Far         float64    `yaml:"far"`
	Eye         [3]float64 `yaml:"eye,flow"`
	Target      [3]float64 `yaml:"target,flow"`
	Up          [3]float64 `yaml:"up,flow"`
	StepDegrees float64    `yaml:"step_degrees"`
	Smoothing   bool       `yaml:"smoothing"`
	FitModel    bool       `yaml:"fit_model"`
}

// ShadingConfig holds the effect mode and lighting coefficients. Colors are
// RGB in [0, 1].
type ShadingConfig struct {
	Mode            string         `yaml:"mode"`
	Light           LightConfig    `yaml:"light"`
	Material        MaterialConfig `yaml:"material"`
	RefractionRatio float64        `yaml:"refraction_ratio"`
}

// LightConfig describes the point light; Position is in view coordinates.
type LightConfig struct {
	Position [3]float64 `yaml:"position,flow"`
	Ambient  [3]float64 `yaml:"ambient,flow"`
	Diffuse  [3]float64 `yaml:"diffuse,flow"`
	Specular [3]float64 `yaml:"specular,flow"`
}

// MaterialConfig describes the mesh surface.
type MaterialConfig struct {
	Ambient   [3]float64 `yaml:"ambient,flow"`
	Diffuse   [3]float64 `yaml:"diffuse,flow"`
	Specular  [3]float64 `yaml:"specular,flow"`
	Shininess float64    `yaml:"shininess"`
}

// RemoteConfig enables the websocket input bridge when Listen is set.
type RemoteConfig struct {
	Listen string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with the reference scene.
func Default() *Config {
	return &Config{
		Model: "res:torus.obj",
		Cubemap: CubemapConfig{
			Dir:      "res:sky",
			Ext:      "png",
			FaceSize: 256,
		},
		View: ViewConfig{
			FPS:         30,
			FOVDegrees:  45,
			Near:        0.5,
			Far:         200,
			Eye:         [3]float64{0, 0, 3},
			Target:      [3]float64{0, 0, 0},
			Up:          [3]float64{0, 1, 0},
			StepDegrees: camera.DefaultStep,
			Smoothing:   false,
			FitModel:    true,
		},
		Shading: ShadingConfig{
			Mode: render.EffectPhong.String(),
			Light: LightConfig{
				Position: [3]float64{0, 3, 3},
				Ambient:  [3]float64{0, 0, 0},
				Diffuse:  [3]float64{1, 1, 1},
				Specular: [3]float64{0, 0, 0},
			},
			Material: MaterialConfig{
				Ambient:   [3]float64{1, 1, 1},
				Diffuse:   [3]float64{205.0 / 255, 163.0 / 255, 63.0 / 255},
				Specular:  [3]float64{0, 0, 0},
				Shininess: 23,
			},
			RefractionRatio: render.DefaultRefractionRatio,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, errors.New("model: source is empty"))
	}
	if n := len(c.Cubemap.Faces); n != 0 && n != render.NumFaces {
		errs = append(errs, fmt.Errorf("cubemap.faces: need %d sources, got %d", render.NumFaces, n))
	}
	if c.Cubemap.FaceSize < 0 {
		errs = append(errs, fmt.Errorf("cubemap.face_size: %d is negative", c.Cubemap.FaceSize))
	}
	if c.View.FPS <= 0 {
		errs = append(errs, fmt.Errorf("view.fps: %d must be positive", c.View.FPS))
	}
	if c.View.FOVDegrees <= 0 || c.View.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("view.fov_degrees: %v outside (0, 180)", c.View.FOVDegrees))
	}
	if c.View.Near <= 0 || c.View.Near >= c.View.Far {
		errs = append(errs, fmt.Errorf("view: need 0 < near < far, got near %v far %v", c.View.Near, c.View.Far))
	}
	if c.View.StepDegrees <= 0 {
		errs = append(errs, fmt.Errorf("view.step_degrees: %v must be positive", c.View.StepDegrees))
	}
	if vec(c.View.Eye).Sub(vec(c.View.Target)).LenSq() == 0 {
		errs = append(errs, errors.New("view: eye and target coincide"))
	}
	if vec(c.View.Up).LenSq() == 0 {
		errs = append(errs, errors.New("view.up: zero vector"))
	}
	if _, err := render.ParseEffectMode(c.Shading.Mode); err != nil {
		errs = append(errs, fmt.Errorf("shading.mode: %w", err))
	}
	if c.Shading.Material.Shininess < 0 {
		errs = append(errs, fmt.Errorf("shading.material.shininess: %v is negative", c.Shading.Material.Shininess))
	}
	if !(c.Shading.RefractionRatio > 0) {
		errs = append(errs, fmt.Errorf("shading.refraction_ratio: %v must be positive", c.Shading.RefractionRatio))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// Camera returns the controller settings.
func (c *Config) Camera() camera.Config {
	return camera.Config{
		Eye:       vec(c.View.Eye),
		Target:    vec(c.View.Target),
		Up:        vec(c.View.Up),
		Step:      c.View.StepDegrees,
		Smoothing: c.View.Smoothing,
		FPS:       c.View.FPS,
	}
}

// Projection returns the perspective settings.
func (c *Config) Projection() transform.Projection {
	return transform.Projection{FovY: c.View.FOVDegrees, Near: c.View.Near, Far: c.View.Far}
}

// EffectMode returns the starting effect. Validate has already rejected
// unknown names, so those fall back to Phong.
func (c *Config) EffectMode() render.EffectMode {
	m, err := render.ParseEffectMode(c.Shading.Mode)
	if err != nil {
		return render.EffectPhong
	}
	return m
}

// Light returns the configured point light.
func (c *Config) Light() render.Light {
	l := c.Shading.Light
	return render.Light{
		Position: vec(l.Position),
		Ambient:  vec(l.Ambient),
		Diffuse:  vec(l.Diffuse),
		Specular: vec(l.Specular),
	}
}

// Material returns the configured surface.
func (c *Config) Material() render.Material {
	m := c.Shading.Material
	return render.Material{
		Ambient:   vec(m.Ambient),
		Diffuse:   vec(m.Diffuse),
		Specular:  vec(m.Specular),
		Shininess: m.Shininess,
	}
}

// FaceSources returns the six cubemap sources. An empty Dir with no
// explicit faces yields no sources, leaving the procedural sky.
func (c *Config) FaceSources() [render.NumFaces]string {
	var out [render.NumFaces]string
	if len(c.Cubemap.Faces) == render.NumFaces {
		copy(out[:], c.Cubemap.Faces)
		return out
	}
	if c.Cubemap.Dir == "" {
		return out
	}
	return loader.Faces(c.Cubemap.Dir, c.Cubemap.Ext)
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}
