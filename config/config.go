package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	logInternal "github.com/AlexStarov/epl-label-GoLang-lib/log"
	"github.com/AlexStarov/epl-label-GoLang-lib/label"
	"github.com/AlexStarov/epl-label-GoLang-lib/printer"
)

// AppName names the config directory.
const AppName = "zlabel"

// Config holds zlabel configuration from config.toml.
type Config struct {
	Printer  string   `toml:"printer"`
	Defaults Defaults `toml:"defaults"`
	Log      Log      `toml:"log"`
	Devices  []Device `toml:"devices"`
}

// Defaults are the label options the form and the print command start with.
type Defaults struct {
	Font       int    `toml:"font"`
	Rotation   int    `toml:"rotation"`
	Horizontal int    `toml:"horizontal"`
	Vertical   int    `toml:"vertical"`
	Image      string `toml:"image"`
	Copies     int    `toml:"copies"`
	CodePage   string `toml:"code_page"`
}

// Log configures the log package.
type Log struct {
	Level   string `toml:"level"`
	Dir     string `toml:"dir"`
	Console bool   `toml:"console"`
}

// Device is a printer reached without the system spooler.
type Device struct {
	Name string `toml:"name"`
	URI  string `toml:"uri"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	o := label.DefaultOptions()
	return Config{
		Printer: printer.DefaultServiceName,
		Defaults: Defaults{
			Font:       o.Font,
			Rotation:   o.Rotation,
			Horizontal: o.Horizontal,
			Vertical:   o.Vertical,
			Image:      o.FormatImage(),
			Copies:     o.Copies,
		},
		Log: Log{Level: "info", Console: true},
	}
}

// Load reads path, or the default location when path is empty. A missing
// file at the default location yields Default(); keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg := Default()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("config path %s is a directory", path)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, err := cfg.Options(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	for i, d := range cfg.Devices {
		if d.Name == "" {
			return Config{}, fmt.Errorf("%s: device %d has no name", path, i+1)
		}
		if _, err := printer.ParseURI(d.URI); err != nil {
			return Config{}, fmt.Errorf("%s: device %s: %w", path, d.Name, err)
		}
	}
	return cfg, nil
}

// Path returns $XDG_CONFIG_HOME/zlabel/config.toml, falling back to
// ~/.config/zlabel/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Options converts the defaults into validated label options.
func (c Config) Options() (label.Options, error) {
	o := label.Options{
		Font:       c.Defaults.Font,
		Rotation:   c.Defaults.Rotation,
		Horizontal: c.Defaults.Horizontal,
		Vertical:   c.Defaults.Vertical,
		Copies:     c.Defaults.Copies,
		CodePage:   c.Defaults.CodePage,
	}
	if c.Defaults.Image != "" {
		if err := o.ParseImage(c.Defaults.Image); err != nil {
			return label.Options{}, err
		}
	}
	if err := o.Validate(); err != nil {
		return label.Options{}, err
	}
	return o, nil
}

// LogConfig maps the [log] table onto the log package.
func (c Config) LogConfig() logInternal.Config {
	return logInternal.Config{Level: c.Log.Level, Dir: c.Log.Dir, Console: c.Log.Console}
}

// PrinterDevices maps the [[devices]] tables onto printer devices.
func (c Config) PrinterDevices() []printer.Device {
	out := make([]printer.Device, 0, len(c.Devices))
	for _, d := range c.Devices {
		out = append(out, printer.Device{Name: d.Name, URI: d.URI})
	}
	return out
}
