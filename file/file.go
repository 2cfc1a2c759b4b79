// Package file provides helpers for reading basis files and tool config and
// for persisting reduction results to disk.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	models "github.com/CK6170/lll-go/models"
)

// Re-export the file models so callers can import only `file`.
type BASISFILE = models.BASISFILE
type CONFIG = models.CONFIG
type RESULT = models.RESULT

// LoadBasis reads a basis file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func LoadBasis(path string) (*BASISFILE, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeBasis(data, filepath.Ext(path))
}

// DecodeBasis decodes a basis document. ext selects the format the same way
// LoadBasis does.
func DecodeBasis(data []byte, ext string) (*BASISFILE, error) {
	b := &BASISFILE{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, b); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, b); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadConfig reads a TOML config file on top of the built-in defaults. An
// empty path returns the defaults.
func LoadConfig(path string) (*CONFIG, error) {
	cfg := models.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToJSON writes a reduction result to file, indented.
func SaveToJSON(file string, result *RESULT) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

// AppendToFile appends content + newline to file, creating it if it does not
// exist.
func AppendToFile(file, content string) error {
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = f.WriteString(content + "\n")
	return err
}
