package rgbtext

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/bodgit/rgbtext/raw"
	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v2"
)

// ConfigFilename is the name of the configuration file in the home directory.
const ConfigFilename = ".rgbtext.yaml"

// Config holds the defaults used by the command line tool.
type Config struct {
	// The record stream carries no dimensions so these must match the
	// encoded image
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`

	Polygons int     `yaml:"polygons"`
	Points   int     `yaml:"points"`
	Weight   float64 `yaml:"weight"`
	Palette  int     `yaml:"palette"`
}

// DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() *Config {
	return &Config{
		Width:      200,
		Height:     200,
		Background: "0, 0, 0",
		Polygons:   300,
		Points:     6,
		Weight:     0.5,
	}
}

// DefaultConfigPath returns the path of the configuration file in the home
// directory of the current user.
func DefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFilename), nil
}

// ReadConfig reads the configuration at path. A missing file is not an error
// and returns DefaultConfig.
func ReadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration values are usable.
func (c *Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	case c.Polygons < 1:
		return fmt.Errorf("invalid number of polygons %d", c.Polygons)
	case c.Points < 3:
		return fmt.Errorf("invalid number of points %d", c.Points)
	case c.Weight < 0 || c.Weight > 1:
		return fmt.Errorf("invalid weight %v", c.Weight)
	case c.Palette < 0:
		return fmt.Errorf("invalid palette size %d", c.Palette)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return err
	}
	return nil
}

// ParseColor parses a color written the same way as a record, "R, G, B".
func ParseColor(s string) (color.RGBA, error) {
	c, err := raw.ParseRecord([]byte(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color \"%s\": %w", s, err)
	}
	return c, nil
}
