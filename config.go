//go:build !(js && wasm)

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/voxelsplace/aseio/ase"
)

type Config struct {
	// zlib level for cel payloads, -1 (default) to 9
	CompressionLevel *int   `json:"compression_level,omitempty"`
	PackCompression  string `json:"pack_compression"`
	Verbose          bool   `json:"verbose"`
}

func defaultConfig() *Config {
	return &Config{PackCompression: "zlib"}
}

func getConfigPath() string {
	if p := os.Getenv("ASETOOL_CONFIG"); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting home directory: %v\n", err)
		os.Exit(1)
	}
	return filepath.Join(homeDir, ".config", "asetool", "config.json")
}

// loadConfig reads the config file; a missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return config, nil
}

func saveConfig(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) encodeOptions() ase.EncodeOptions {
	opts := ase.DefaultEncodeOptions()
	if c.CompressionLevel != nil {
		opts.CompressionLevel = *c.CompressionLevel
	}
	return opts
}

func (c *Config) packCompression() (ase.PackCompression, error) {
	return ase.ParsePackCompression(c.PackCompression)
}
