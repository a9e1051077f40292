package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// flags holds the parsed command line before it is merged into a Config.
type flags struct {
	fs *flag.FlagSet

	config        string
	debug         bool
	width         int
	height        int
	upscale       int
	shader        string
	out           string
	depth         string
	eye           Vec
	target        Vec
	light         Vec
	ortho         bool
	edgeTolerance float64
	filter        string
	wrap          string
	diffuse       string
	normal        string
	specular      string
	fit           bool
	wireframe     bool
	preview       bool
	fps           int
	logFile       string
}

func newFlags(name string) *flags {
	f := &flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := f.fs
	fs.StringVar(&f.config, "config", "", "Path to config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.width, "width", 0, "Image width")
	fs.IntVar(&f.height, "height", 0, "Image height")
	fs.IntVar(&f.upscale, "upscale", 0, "Integer upscale factor for the written image")
	fs.StringVar(&f.shader, "shader", "", "Shader: flat, gouraud, textured, phong, toon or depth")
	fs.StringVar(&f.out, "out", "", "Color output path (.png or .tga)")
	fs.StringVar(&f.depth, "depth", "", "Depth image output path")
	fs.Var(&f.eye, "eye", "Camera position as x,y,z")
	fs.Var(&f.target, "target", "Camera look target as x,y,z")
	fs.Var(&f.light, "light", "Light direction as x,y,z")
	fs.BoolVar(&f.ortho, "ortho", false, "Use an orthographic projection")
	fs.Float64Var(&f.edgeTolerance, "edge-tolerance", 0, "Barycentric tolerance for shared edges")
	fs.StringVar(&f.filter, "filter", "", "Texture filter: nearest or bilinear")
	fs.StringVar(&f.wrap, "wrap", "", "Texture wrap: repeat or clamp")
	fs.StringVar(&f.diffuse, "diffuse", "", "Diffuse map path, or \"checker\" for a test pattern")
	fs.StringVar(&f.normal, "normal", "", "Normal map path")
	fs.StringVar(&f.specular, "specular", "", "Specular map path")
	fs.BoolVar(&f.fit, "fit", false, "Fit the model into the unit cube")
	fs.BoolVar(&f.wireframe, "wireframe", false, "Overlay the triangle edges")
	fs.BoolVar(&f.preview, "preview", false, "Show an interactive terminal preview")
	fs.IntVar(&f.fps, "fps", 0, "Preview frame rate")
	fs.StringVar(&f.logFile, "log-file", "", "Also write logs to this file")
	return f
}

// apply copies every flag given on the command line into cfg.
// Positional argument 0 is the model path.
func (f *flags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if f.debug {
				cfg.Logging.Level = "debug"
			}
		case "width":
			cfg.Image.Width = f.width
		case "height":
			cfg.Image.Height = f.height
		case "upscale":
			cfg.Image.Upscale = f.upscale
		case "shader":
			cfg.Shader.Kind = f.shader
		case "out":
			cfg.Output.Color = f.out
		case "depth":
			cfg.Output.Depth = f.depth
		case "eye":
			cfg.Camera.Eye = f.eye
		case "target":
			cfg.Camera.Target = f.target
		case "light":
			cfg.Light.Direction = f.light
		case "ortho":
			cfg.Camera.Perspective = !f.ortho
		case "edge-tolerance":
			cfg.Shader.EdgeTolerance = f.edgeTolerance
		case "filter":
			cfg.Shader.TextureFilter = f.filter
		case "wrap":
			cfg.Shader.TextureWrap = f.wrap
		case "diffuse":
			cfg.Model.DiffuseMap = f.diffuse
		case "normal":
			cfg.Model.NormalMap = f.normal
		case "specular":
			cfg.Model.SpecularMap = f.specular
		case "fit":
			cfg.Model.FitUnitCube = f.fit
		case "wireframe":
			cfg.Output.Wireframe = f.wireframe
		case "preview":
			cfg.Preview.Enabled = f.preview
		case "fps":
			cfg.Preview.FPS = f.fps
		case "log-file":
			cfg.Logging.LogFile = f.logFile
		}
	})
	if f.fs.NArg() > 0 {
		cfg.Model.Path = f.fs.Arg(0)
	}
}

// String implements flag.Value.
func (v *Vec) String() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}

// Set implements flag.Value.
func (v *Vec) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = f
	}
	return nil
}
