package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown config format")

// Load reads the config file at path. The format is picked by extension.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f, filepath.Ext(path))
}

// Decode reads a config in the format named by ext (".toml", ".yaml", ".yml"
// or ".json").
func Decode(r io.Reader, ext string) (conf Config, err error) {
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.NewDecoder(r).Decode(&conf)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(r).Decode(&conf)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case ".json":
		err = json.NewDecoder(r).Decode(&conf)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return conf, nil
}

// TimerPrecision returns the configured precision, or -1 when unset.
func (c Config) TimerPrecision() int {
	if c.Timer.Precision == nil {
		return -1
	}
	return *c.Timer.Precision
}
