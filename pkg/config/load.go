package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/trifractal/pkg/errors"
)

// Supported config file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatFromPath infers the file format from the extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidConfig, "unsupported config file %q (want .toml, .yaml, .yml or .json)", path)
	}
}

// Load reads and validates a config file. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the given format on top of Default and validates
// the result.
func Decode(data []byte, format string) (Config, error) {
	cfg := Default()

	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(data), &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	default:
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode %s", format)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg Config, format string) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
}

// Write encodes cfg to path, choosing the format from the extension.
func Write(path string, cfg Config) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cfg, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
