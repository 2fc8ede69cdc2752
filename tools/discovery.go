package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/slighter12/mcp-toolserver-go/logger"
	"github.com/slighter12/mcp-toolserver-go/tools/types"
)

// Manifest enables one catalog unit from the discovery directory.
type Manifest struct {
	Unit    string `yaml:"unit" toml:"unit"`
	Enabled *bool  `yaml:"enabled" toml:"enabled"`
}

// IsEnabled reports whether the manifest switches its unit on. Absent means yes.
func (m Manifest) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// Discover loads every eligible manifest found directly inside dir and
// registers the units they name. Per-file failures are logged and skipped.
// A missing directory is not an error.
func Discover(dir string, registrar types.Registrar) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Tool directory not found, nothing discovered", "dir", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("read tool directory %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsManifestFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		ok, err := LoadUnit(path, registrar)
		if err != nil {
			logger.Warn("Failed to load tool unit", "path", path, "error", err)
			continue
		}
		if ok {
			loaded++
		}
	}

	logger.Info("Tool discovery finished", "dir", dir, "units", loaded)
	return loaded, nil
}

// IsManifestFile reports whether a base name is eligible for discovery.
// Names starting with "_" are reserved for directory defaults, names starting
// with "." are hidden.
func IsManifestFile(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}

// LoadUnit reads one manifest and registers its unit. It reports false when
// the manifest disables the unit.
func LoadUnit(path string, registrar types.Registrar) (bool, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return false, err
	}
	if !manifest.IsEnabled() {
		logger.Info("Tool unit disabled", "path", path, "unit", manifest.Unit)
		return false, nil
	}

	unit, ok := LookupUnit(manifest.Unit)
	if !ok {
		return false, fmt.Errorf("unknown tool unit %q", manifest.Unit)
	}
	if err := unit.Register(registrar); err != nil {
		return false, fmt.Errorf("register unit %s: %w", unit.Name, err)
	}

	logger.Info("Tool unit loaded", "path", path, "unit", unit.Name)
	return true, nil
}

// LoadManifest decodes a YAML or TOML manifest file.
func LoadManifest(path string) (Manifest, error) {
	var manifest Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, fmt.Errorf("read manifest: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return manifest, fmt.Errorf("parse manifest: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return manifest, fmt.Errorf("parse manifest: %w", err)
		}
	}

	manifest.Unit = strings.TrimSpace(manifest.Unit)
	if manifest.Unit == "" {
		return manifest, errors.New("manifest does not name a unit")
	}
	return manifest, nil
}
