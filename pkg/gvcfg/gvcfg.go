package gvcfg

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Color modes accepted by Config.Color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the viewer settings. Zero-valued fields in a config file
// keep their defaults.
type Config struct {
	SnapshotPath     string        `yaml:"snapshotPath"`
	FileWaitInterval time.Duration `yaml:"fileWaitInterval"`
	NoDataBackoff    time.Duration `yaml:"noDataBackoff"`
	PollInterval     time.Duration `yaml:"pollInterval"`
	KeyDelay         time.Duration `yaml:"keyDelay"`
	WaitTimeout      time.Duration `yaml:"waitTimeout"`
	Watch            bool          `yaml:"watch"`
	BlankStale       bool          `yaml:"blankStale"`
	LogFile          string        `yaml:"logFile"`
	Color            string        `yaml:"color"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		SnapshotPath:     filepath.Join(GefDir(), "shared_view"),
		FileWaitInterval: time.Second,
		NoDataBackoff:    time.Second,
		PollInterval:     500 * time.Millisecond,
		KeyDelay:         500 * time.Millisecond,
		WaitTimeout:      0,
		LogFile:          filepath.Join(GefDir(), "view.log"),
		Color:            ColorAuto,
	}
}

// DefaultPath is where Load looks when no config file is named
func DefaultPath() string {
	return filepath.Join(GefDir(), "view.yaml")
}

// GefDir is the per-user directory shared with the producer
func GefDir() string {
	return filepath.Join(HomeDir(), ".gef")
}

// HomeDir returns the user's home directory
func HomeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return os.Getenv("USERPROFILE") // windows
}

// ExpandHome replaces a leading ~ with the home directory
func ExpandHome(p string) string {
	if p == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(HomeDir(), p[2:])
	}
	return p
}

// Load reads the YAML config at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("No config file at %s, using defaults", path)
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var file Config
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.merge(&file)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	log.Debugf("Loaded config %s", path)
	return cfg, nil
}

// merge copies the non-zero fields of o onto c
func (c *Config) merge(o *Config) {
	if o.SnapshotPath != "" {
		c.SnapshotPath = o.SnapshotPath
	}
	if o.FileWaitInterval != 0 {
		c.FileWaitInterval = o.FileWaitInterval
	}
	if o.NoDataBackoff != 0 {
		c.NoDataBackoff = o.NoDataBackoff
	}
	if o.PollInterval != 0 {
		c.PollInterval = o.PollInterval
	}
	if o.KeyDelay != 0 {
		c.KeyDelay = o.KeyDelay
	}
	if o.WaitTimeout != 0 {
		c.WaitTimeout = o.WaitTimeout
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.Color != "" {
		c.Color = o.Color
	}
	c.Watch = c.Watch || o.Watch
	c.BlankStale = c.BlankStale || o.BlankStale
	c.SnapshotPath = ExpandHome(c.SnapshotPath)
	c.LogFile = ExpandHome(c.LogFile)
}

// Validate checks intervals and enumerations
func (c *Config) Validate() error {
	if c.SnapshotPath == "" {
		return errors.New("snapshot path must not be empty")
	}
	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"fileWaitInterval", c.FileWaitInterval},
		{"noDataBackoff", c.NoDataBackoff},
		{"pollInterval", c.PollInterval},
	}
	for _, iv := range intervals {
		if iv.d <= 0 {
			return errors.Errorf("%s must be positive, got %s", iv.name, iv.d)
		}
	}
	if c.KeyDelay < 0 {
		return errors.Errorf("keyDelay must not be negative, got %s", c.KeyDelay)
	}
	if c.WaitTimeout < 0 {
		return errors.Errorf("waitTimeout must not be negative, got %s", c.WaitTimeout)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color must be one of auto, always, never; got %q", c.Color)
	}
	return nil
}
