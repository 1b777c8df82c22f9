// Package workers loads worker aggregates handed over by the record-keeping
// application, either as request bodies or as exported files.
package workers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lazyserp/CuraVie/internal/models"
)

// Format is an aggregate encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for file extensions with no decoder
var ErrUnsupportedFormat = errors.New("unsupported worker file format")

// FormatForPath picks the format from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and validates a worker aggregate from disk
func LoadFile(path string) (*models.Worker, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read worker file %s: %w", path, err)
	}

	worker, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load worker file %s: %w", path, err)
	}
	return worker, nil
}

// Decode parses and validates a worker aggregate.
// Absent fields are not an error; out-of-range values are.
func Decode(data []byte, format Format) (*models.Worker, error) {
	var worker models.Worker

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&worker); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &worker); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &worker); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := worker.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker record: %w", err)
	}
	return &worker, nil
}
