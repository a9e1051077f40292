package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrUsage marks command line errors. The flag set has already written
// them to the output passed to Load.
var ErrUsage = errors.New("invalid arguments")

// Load builds a configuration with priority: defaults < file < flags.
// args excludes the program name. Usage and flag errors are written to
// output.
func Load(args []string, output io.Writer) (*Config, error) {
	f := newFlags("softrender")
	f.fs.SetOutput(output)
	f.fs.Usage = func() {
		fmt.Fprintf(output, "softrender - software rasterizer\n\n")
		fmt.Fprintf(output, "Usage: softrender [options] <model.obj|model.glb|model.stl>\n\n")
		fmt.Fprintf(output, "Options:\n")
		f.fs.PrintDefaults()
	}
	if err := f.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg := Default()

	path := f.config
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	f.apply(cfg)
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./softrender.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "softrender")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "softrender")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "softrender")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "softrender")
	}
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
