// Package config reads the optional breeze.yaml project file and resolves it
// into the settings the engine and the CLI run with.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-breeze/breeze/pkg/geometry"
)

// FileName is the project configuration file name.
const FileName = "breeze.yaml"

// Defaults applied by Resolve.
const (
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultClearColor = "#FFFFFFFF"
	DefaultDebugAddr  = "127.0.0.1:9273"
)

// Config represents the optional breeze.yaml configuration.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Window     WindowConfig     `yaml:"window"`
	Render     RenderConfig     `yaml:"render"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Debug      DebugConfig      `yaml:"debug"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// WindowConfig describes the host surface.
type WindowConfig struct {
	Title  string  `yaml:"title,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// RenderConfig contains raster backend settings.
type RenderConfig struct {
	ClearColor  string  `yaml:"clear_color,omitempty"`
	DebugBounds bool    `yaml:"debug_bounds,omitempty"`
	Scale       float64 `yaml:"scale,omitempty"`
}

// DispatcherConfig contains dispatcher settings.
type DispatcherConfig struct {
	CaptureTraces bool `yaml:"capture_traces,omitempty"`
}

// DebugConfig contains debug server settings.
type DebugConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	AppName       string
	Title         string
	Width         float64
	Height        float64
	ClearColor    geometry.Color
	DebugBounds   bool
	Scale         float64
	CaptureTraces bool
	DebugAddr     string
}

// Size returns the window size.
func (r *Resolved) Size() geometry.Size {
	return geometry.Size{Width: r.Width, Height: r.Height}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// Parse decodes a configuration document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// LoadOptional reads breeze.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve loads breeze.yaml (if present) from dir and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills defaults relative to the project directory dir and
// validates the result.
func (c *Config) Resolve(dir string) (*Resolved, error) {
	appName := strings.TrimSpace(c.App.Name)
	if appName == "" {
		appName = defaultAppName(dir)
	}

	title := strings.TrimSpace(c.Window.Title)
	if title == "" {
		title = appName
	}

	width, height := c.Window.Width, c.Window.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if err := validateExtent("window.width", width); err != nil {
		return nil, err
	}
	if err := validateExtent("window.height", height); err != nil {
		return nil, err
	}

	scale := c.Render.Scale
	if scale == 0 {
		scale = 1
	}
	if err := validateExtent("render.scale", scale); err != nil {
		return nil, err
	}

	clear := strings.TrimSpace(c.Render.ClearColor)
	if clear == "" {
		clear = DefaultClearColor
	}
	clearColor, err := geometry.ParseColor(clear)
	if err != nil {
		return nil, fmt.Errorf("render.clear_color: %w", err)
	}

	addr := strings.TrimSpace(c.Debug.Addr)
	if addr == "" {
		addr = DefaultDebugAddr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("debug.addr: %w", err)
	}

	return &Resolved{
		Root:          dir,
		AppName:       appName,
		Title:         title,
		Width:         width,
		Height:        height,
		ClearColor:    clearColor,
		DebugBounds:   c.Render.DebugBounds,
		Scale:         scale,
		CaptureTraces: c.Dispatcher.CaptureTraces,
		DebugAddr:     addr,
	}, nil
}

func validateExtent(key string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s must be a positive finite number (got %v)", key, v)
	}
	return nil
}

// FindProjectRoot walks up from dir to the nearest directory holding
// breeze.yaml or go.mod. It returns dir itself when neither is found.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	start := dir
	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

// defaultAppName is the last element of the go.mod module path in dir, with
// any major version suffix removed, or the directory name.
func defaultAppName(dir string) string {
	base := filepath.Base(dir)
	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		if path := modfile.ModulePath(data); path != "" {
			if prefix, _, ok := module.SplitPathVersion(path); ok {
				path = prefix
			}
			parts := strings.Split(path, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "breeze_app"
	}
	return base
}
