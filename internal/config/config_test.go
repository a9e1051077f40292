package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Image.Width != 800 || cfg.Image.Height != 800 {
		t.Errorf("expected 800x800, got %dx%d", cfg.Image.Width, cfg.Image.Height)
	}
	if cfg.Image.Upscale != 1 {
		t.Errorf("expected upscale 1, got %d", cfg.Image.Upscale)
	}
	if !cfg.Camera.Perspective {
		t.Error("expected perspective projection by default")
	}
	if cfg.Viewport.Margin != 0.125 {
		t.Errorf("expected margin 1/8, got %v", cfg.Viewport.Margin)
	}
	if cfg.Shader.Kind != "gouraud" {
		t.Errorf("expected gouraud shader, got %s", cfg.Shader.Kind)
	}
	if cfg.Shader.EdgeTolerance != 0 {
		t.Errorf("expected zero edge tolerance, got %v", cfg.Shader.EdgeTolerance)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Output.Depth != "" {
		t.Errorf("expected no depth output, got %s", cfg.Output.Depth)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "render.yaml")
	yamlContent := `
image:
  width: 320
  height: 240
camera:
  eye: [0, 0, 5]
shader:
  kind: phong
model:
  path: head.obj
  diffuse_map: head_diffuse.tga
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load([]string{"-config", configPath}, io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Image.Width != 320 || cfg.Image.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", cfg.Image.Width, cfg.Image.Height)
	}
	if cfg.Camera.Eye != (Vec{0, 0, 5}) {
		t.Errorf("expected eye (0,0,5), got %v", cfg.Camera.Eye)
	}
	if cfg.Shader.Kind != "phong" {
		t.Errorf("expected phong, got %s", cfg.Shader.Kind)
	}
	if cfg.Model.DiffuseMap != "head_diffuse.tga" {
		t.Errorf("expected diffuse map, got %q", cfg.Model.DiffuseMap)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Camera.Up != (Vec{0, 1, 0}) {
		t.Errorf("expected default up, got %v", cfg.Camera.Up)
	}
	if cfg.Output.Color != "output.png" {
		t.Errorf("expected default output, got %s", cfg.Output.Color)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(configPath, []byte("image:\n  width: 320\n  height: 240\nmodel:\n  path: file.obj\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	args := []string{
		"-config", configPath,
		"-width", "640",
		"-eye", "1, 2, 3",
		"-ortho",
		"-debug",
		"-edge-tolerance", "0.1",
		"-depth", "z.tga",
		"-filter", "bilinear",
		"-wrap", "clamp",
		"flag.obj",
	}
	cfg, err := Load(args, io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Image.Width != 640 {
		t.Errorf("flag width not applied: %d", cfg.Image.Width)
	}
	if cfg.Image.Height != 240 {
		t.Errorf("file height lost: %d", cfg.Image.Height)
	}
	if cfg.Camera.Eye != (Vec{1, 2, 3}) {
		t.Errorf("eye = %v, want (1,2,3)", cfg.Camera.Eye)
	}
	if cfg.Camera.Perspective {
		t.Error("-ortho did not disable perspective")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("-debug did not set the level: %s", cfg.Logging.Level)
	}
	if cfg.Shader.EdgeTolerance != 0.1 {
		t.Errorf("edge tolerance = %v", cfg.Shader.EdgeTolerance)
	}
	if cfg.Shader.TextureFilter != "bilinear" || cfg.Shader.TextureWrap != "clamp" {
		t.Errorf("texture sampling = %s/%s, want bilinear/clamp", cfg.Shader.TextureFilter, cfg.Shader.TextureWrap)
	}
	if cfg.Output.Depth != "z.tga" {
		t.Errorf("depth output = %q", cfg.Output.Depth)
	}
	if cfg.Model.Path != "flag.obj" {
		t.Errorf("model path = %q, want positional argument", cfg.Model.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("image: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"missing file", []string{"-config", filepath.Join(dir, "none.yaml")}, false},
		{"bad yaml", []string{"-config", bad}, false},
		{"bad vector", []string{"-eye", "1,2"}, true},
		{"unknown flag", []string{"-wobble"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrUsage); got != tt.usage {
				t.Errorf("errors.Is(%v, ErrUsage) = %v, want %v", err, got, tt.usage)
			}
		})
	}

	if _, err := Load([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h returned %v, want flag.ErrHelp", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Image.Width = 0 }, "image size"},
		{"upscale", func(c *Config) { c.Image.Upscale = 0 }, "upscale"},
		{"margin", func(c *Config) { c.Viewport.Margin = 0.5 }, "margin"},
		{"shader", func(c *Config) { c.Shader.Kind = "wobbly" }, "unknown shader"},
		{"tolerance", func(c *Config) { c.Shader.EdgeTolerance = -1 }, "edge tolerance"},
		{"color", func(c *Config) { c.Shader.Color = "white" }, "shader color"},
		{"filter", func(c *Config) { c.Shader.TextureFilter = "cubic" }, "texture filter"},
		{"wrap", func(c *Config) { c.Shader.TextureWrap = "mirror" }, "texture wrap"},
		{"eye", func(c *Config) { c.Camera.Eye = c.Camera.Target }, "coincide"},
		{"light", func(c *Config) { c.Light.Direction = Vec{} }, "non-zero"},
		{"model", func(c *Config) { c.Model.Path = "" }, "model path"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"fps", func(c *Config) { c.Preview.Enabled, c.Preview.FPS = true, 0 }, "fps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Model.Path = "model.obj"
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.Model.Path = "model.obj"
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults with a model invalid: %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "render.yaml")
	cfg := Default()
	cfg.Model.Path = "saved.obj"
	cfg.Camera.Eye = Vec{4, 5, 6}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := Load([]string{"-config", path}, io.Discard)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model.Path != "saved.obj" || loaded.Camera.Eye != (Vec{4, 5, 6}) {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
