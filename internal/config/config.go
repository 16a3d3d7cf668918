// Package config loads cadterm settings from an optional TOML file and
// command-line flags. Flags win over the file, the file wins over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"cadterm/internal/canvas"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

type Tolerance struct {
	Select   float64 `toml:"select"`
	Min      float64 `toml:"min"`
	Max      float64 `toml:"max"`
	Endpoint float64 `toml:"endpoint_factor"`
	Snap     float64 `toml:"snap"`
}

type Zoom struct {
	In  float64 `toml:"in"`
	Out float64 `toml:"out"`
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

type Draw struct {
	Tool  string `toml:"tool"`
	Snap  bool   `toml:"snap"`
	Ortho bool   `toml:"ortho"`
}

type UI struct {
	DoubleClick time.Duration `toml:"double_click"`
	Frame       time.Duration `toml:"frame"`
	Dir         string        `toml:"dir"`
}

type Bridge struct {
	Listen   string        `toml:"listen"`
	Announce bool          `toml:"announce"`
	Timeout  time.Duration `toml:"timeout"`
}

type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type Config struct {
	Tolerance Tolerance `toml:"tolerance"`
	Zoom      Zoom      `toml:"zoom"`
	Draw      Draw      `toml:"draw"`
	UI        UI        `toml:"ui"`
	Bridge    Bridge    `toml:"bridge"`
	Log       Log       `toml:"log"`
}

func Default() Config {
	d := canvas.DefaultSettings()
	return Config{
		Tolerance: Tolerance{Select: d.SelectTolerance, Min: d.MinTolerance, Max: d.MaxTolerance, Endpoint: d.EndpointFactor, Snap: d.SnapTolerance},
		Zoom:      Zoom{In: d.ZoomIn, Out: d.ZoomOut, Min: d.MinScale, Max: d.MaxScale},
		Draw:      Draw{Tool: canvas.ToolSelection.String(), Snap: true},
		UI:        UI{DoubleClick: 400 * time.Millisecond, Frame: time.Second / 30, Dir: "."},
		Bridge:    Bridge{Timeout: 5 * time.Second},
		Log:       Log{File: "cadterm.log", Level: "info"},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Keys the file sets but Config does not know are reported as an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Tolerance.Min <= 0 || c.Tolerance.Max < c.Tolerance.Min {
		errs = append(errs, fmt.Errorf("tolerance: need 0 < min <= max, got %v..%v", c.Tolerance.Min, c.Tolerance.Max))
	}
	if c.Tolerance.Select <= 0 || c.Tolerance.Snap <= 0 || c.Tolerance.Endpoint < 1 {
		errs = append(errs, errors.New("tolerance: select and snap must be positive, endpoint_factor >= 1"))
	}
	if c.Zoom.In <= 1 || c.Zoom.Out <= 0 || c.Zoom.Out >= 1 {
		errs = append(errs, fmt.Errorf("zoom: need in > 1 and 0 < out < 1, got %v/%v", c.Zoom.In, c.Zoom.Out))
	}
	if c.Zoom.Min <= 0 || c.Zoom.Max <= c.Zoom.Min {
		errs = append(errs, fmt.Errorf("zoom: need 0 < min < max, got %v..%v", c.Zoom.Min, c.Zoom.Max))
	}
	if _, ok := canvas.ParseTool(c.Draw.Tool); !ok {
		errs = append(errs, fmt.Errorf("draw: unknown tool %q", c.Draw.Tool))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}

// Canvas converts the tolerance and zoom sections for the interaction surface.
func (c Config) Canvas() canvas.Settings {
	return canvas.Settings{
		SelectTolerance: c.Tolerance.Select,
		MinTolerance:    c.Tolerance.Min,
		MaxTolerance:    c.Tolerance.Max,
		EndpointFactor:  c.Tolerance.Endpoint,
		SnapTolerance:   c.Tolerance.Snap,
		ZoomIn:          c.Zoom.In,
		ZoomOut:         c.Zoom.Out,
		MinScale:        c.Zoom.Min,
		MaxScale:        c.Zoom.Max,
	}
}

func (c Config) Tool() canvas.Tool {
	t, _ := canvas.ParseTool(c.Draw.Tool)
	return t
}

func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Flags are the command-line overrides.
type Flags struct {
	fs *flag.FlagSet

	Path      string
	ExportPDF string
	Debug     bool

	logFile  string
	listen   string
	announce bool
	tool     string
	ortho    bool
	snap     bool
}

// RegisterFlags defines the cadterm flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Default()
	fs.StringVar(&f.Path, "config", "", "TOML config file")
	fs.StringVar(&f.ExportPDF, "export-pdf", "", "write the loaded drawing to this PDF and exit")
	fs.BoolVar(&f.Debug, "debug", false, "log at debug level")
	fs.StringVar(&f.logFile, "log", def.Log.File, "log file (\"-\" for stderr)")
	fs.StringVar(&f.listen, "listen", def.Bridge.Listen, "serve the websocket shape bridge on this address")
	fs.BoolVar(&f.announce, "mdns", def.Bridge.Announce, "announce the bridge over mDNS")
	fs.StringVar(&f.tool, "tool", def.Draw.Tool, "initial tool: selection, point, line, polyline, text")
	fs.BoolVar(&f.ortho, "ortho", def.Draw.Ortho, "start with ortho mode on")
	fs.BoolVar(&f.snap, "snap", def.Draw.Snap, "start with snapping on")
	return f
}

// Apply copies the flags that were set explicitly onto cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log":
			cfg.Log.File = f.logFile
		case "listen":
			cfg.Bridge.Listen = f.listen
		case "mdns":
			cfg.Bridge.Announce = f.announce
		case "tool":
			cfg.Draw.Tool = f.tool
		case "ortho":
			cfg.Draw.Ortho = f.ortho
		case "snap":
			cfg.Draw.Snap = f.snap
		}
	})
	if f.Debug {
		cfg.Log.Level = "debug"
	}
}
