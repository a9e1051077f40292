// Package config handles render configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Config holds all settings of one render run.
type Config struct {
	Image    ImageConfig    `yaml:"image"`
	Camera   CameraConfig   `yaml:"camera"`
	Viewport ViewportConfig `yaml:"viewport"`
	Light    LightConfig    `yaml:"light"`
	Shader   ShaderConfig   `yaml:"shader"`
	Model    ModelConfig    `yaml:"model"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Preview  PreviewConfig  `yaml:"preview"`
}

// ImageConfig holds the framebuffer size.
type ImageConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Upscale    int    `yaml:"upscale"`    // integer nearest-neighbour factor on output
	Background string `yaml:"background"` // hex color
}

// CameraConfig places the camera.
type CameraConfig struct {
	Eye         Vec  `yaml:"eye"`
	Target      Vec  `yaml:"target"`
	Up          Vec  `yaml:"up"`
	Perspective bool `yaml:"perspective"`
}

// ViewportConfig holds the screen mapping.
type ViewportConfig struct {
	Margin     float64 `yaml:"margin"` // fraction of the image left empty on each side
	DepthRange float64 `yaml:"depth_range"`
}

// LightConfig holds the directional light.
type LightConfig struct {
	Direction Vec `yaml:"direction"`
}

// ShaderConfig selects and tunes the shading program.
type ShaderConfig struct {
	Kind          string  `yaml:"kind"`
	Color         string  `yaml:"color"` // base color for untextured shaders
	EdgeTolerance float64 `yaml:"edge_tolerance"`
	ToonBands     int     `yaml:"toon_bands"`
	TextureFilter string  `yaml:"texture_filter"` // nearest or bilinear
	TextureWrap   string  `yaml:"texture_wrap"`   // repeat or clamp
}

// ModelConfig holds the mesh and its surface maps.
type ModelConfig struct {
	Path          string `yaml:"path"`
	DiffuseMap    string `yaml:"diffuse_map"`
	NormalMap     string `yaml:"normal_map"`
	SpecularMap   string `yaml:"specular_map"`
	FitUnitCube   bool   `yaml:"fit_unit_cube"`
	SmoothNormals bool   `yaml:"smooth_normals"`
}

// OutputConfig holds the written artifacts.
type OutputConfig struct {
	Color          string `yaml:"color"`
	Depth          string `yaml:"depth"` // empty disables the depth image
	Wireframe      bool   `yaml:"wireframe"`
	WireframeColor string `yaml:"wireframe_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// PreviewConfig holds the interactive terminal preview settings.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
	FPS     int  `yaml:"fps"`
}

// Vec is a 3-component vector written as a YAML sequence.
type Vec [3]float64

// V3 converts to a math3d vector.
func (v Vec) V3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Image: ImageConfig{
			Width:      800,
			Height:     800,
			Upscale:    1,
			Background: "#000000",
		},
		Camera: CameraConfig{
			Eye:         Vec{1, 1, 3},
			Target:      Vec{0, 0, 0},
			Up:          Vec{0, 1, 0},
			Perspective: true,
		},
		Viewport: ViewportConfig{
			Margin:     1.0 / 8,
			DepthRange: render.DefaultDepthRange,
		},
		Light: LightConfig{
			Direction: Vec{1, 1, 1},
		},
		Shader: ShaderConfig{
			Kind:          string(render.ShaderGouraud),
			Color:         "#ffffff",
			ToonBands:     4,
			TextureFilter: string(render.FilterNearest),
			TextureWrap:   string(render.WrapRepeat),
		},
		Model: ModelConfig{
			SmoothNormals: true,
		},
		Output: OutputConfig{
			Color:          "output.png",
			WireframeColor: "#00ff80",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Preview: PreviewConfig{
			FPS: 30,
		},
	}
}

var levels = []string{"debug", "info", "warn", "error"}

// Validate reports every setting that cannot produce a render.
func (c *Config) Validate() error {
	var errs []error
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size %dx%d must be positive", c.Image.Width, c.Image.Height))
	}
	if c.Image.Upscale < 1 {
		errs = append(errs, fmt.Errorf("upscale %d must be at least 1", c.Image.Upscale))
	}
	if c.Viewport.Margin < 0 || c.Viewport.Margin >= 0.5 {
		errs = append(errs, fmt.Errorf("viewport margin %v must be in [0, 0.5)", c.Viewport.Margin))
	}
	if c.Viewport.DepthRange <= 0 {
		errs = append(errs, fmt.Errorf("depth range %v must be positive", c.Viewport.DepthRange))
	}
	if c.Camera.Eye == c.Camera.Target {
		errs = append(errs, errors.New("camera eye and target coincide"))
	}
	if c.Camera.Up.V3().Len() == 0 || c.Light.Direction.V3().Len() == 0 {
		errs = append(errs, errors.New("camera up and light direction must be non-zero"))
	}
	if !slices.Contains(render.ShaderKinds, render.ShaderKind(c.Shader.Kind)) {
		errs = append(errs, fmt.Errorf("unknown shader %q", c.Shader.Kind))
	}
	if c.Shader.EdgeTolerance < 0 {
		errs = append(errs, fmt.Errorf("edge tolerance %v must not be negative", c.Shader.EdgeTolerance))
	}
	if !slices.Contains(render.FilterModes, render.FilterMode(c.Shader.TextureFilter)) {
		errs = append(errs, fmt.Errorf("unknown texture filter %q", c.Shader.TextureFilter))
	}
	if !slices.Contains(render.WrapModes, render.WrapMode(c.Shader.TextureWrap)) {
		errs = append(errs, fmt.Errorf("unknown texture wrap %q", c.Shader.TextureWrap))
	}
	if c.Shader.ToonBands < 1 {
		errs = append(errs, fmt.Errorf("toon bands %d must be at least 1", c.Shader.ToonBands))
	}
	for name, hex := range map[string]string{
		"background":      c.Image.Background,
		"shader color":    c.Shader.Color,
		"wireframe color": c.Output.WireframeColor,
	} {
		if _, err := render.ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.Model.Path == "" {
		errs = append(errs, errors.New("no model path"))
	}
	if c.Output.Color == "" {
		errs = append(errs, errors.New("no output path"))
	}
	if !slices.Contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	if c.Preview.Enabled && c.Preview.FPS <= 0 {
		errs = append(errs, fmt.Errorf("preview fps %d must be positive", c.Preview.FPS))
	}
	return errors.Join(errs...)
}
