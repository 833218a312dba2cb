package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"4d63.com/tz"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aimcal/ical/datetime"
)

const (
	NewLineCRLF = "crlf"
	NewLineLF   = "lf"
)

// TodoRange is the default window of the todos command, as anchors such as
// "today" or "7d".
type TodoRange struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Config is the icalfmt configuration file.
type Config struct {
	// Timezone is the IANA zone used to resolve anchors and print times.
	// Empty means the process local zone.
	Timezone string `yaml:"timezone"`

	// LineLength is the folding limit in octets.
	LineLength int `yaml:"line_length"`

	// NewLine is "crlf" (default) or "lf".
	NewLine string `yaml:"newline"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`

	// Service names the product in the PRODID of generated calendars.
	Service string `yaml:"service"`

	Todos TodoRange `yaml:"todos"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LineLength: 75,
		NewLine:    NewLineCRLF,
		Color:      "auto",
		LogLevel:   "warning",
		Service:    "icalfmt",
		Todos:      TodoRange{From: "today", To: "7d"},
	}
}

// Normalize fills in missing values and replaces unknown ones with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.LineLength < 5 {
		c.LineLength = def.LineLength
	}
	switch strings.ToLower(c.NewLine) {
	case NewLineCRLF, NewLineLF:
		c.NewLine = strings.ToLower(c.NewLine)
	default:
		c.NewLine = def.NewLine
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		c.Color = def.Color
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Service == "" {
		c.Service = def.Service
	}
	if c.Todos.From == "" {
		c.Todos.From = def.Todos.From
	}
	if c.Todos.To == "" {
		c.Todos.To = def.Todos.To
	}
}

// Location resolves Timezone, trying the host database before the embedded
// one.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc, nil
	}
	loc, err := tz.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading timezone %q", c.Timezone)
	}
	return loc, nil
}

// TodoAnchors parses the default todo window.
func (c *Config) TodoAnchors() (from, to datetime.Anchor, err error) {
	if from, err = datetime.ParseAnchor(c.Todos.From); err != nil {
		return from, to, errors.Wrap(err, "todos.from")
	}
	if to, err = datetime.ParseAnchor(c.Todos.To); err != nil {
		return from, to, errors.Wrap(err, "todos.to")
	}
	return from, to, nil
}

// Load reads the YAML file at path. A missing file gives the defaults
// without creating it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path atomically through a temporary file in the same
// directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	tmp, err := os.CreateTemp(dir, ".icalfmt-config-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "writing config")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "setting config permissions")
	}
	return errors.Wrap(os.Rename(tmpName, path), "replacing config")
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
