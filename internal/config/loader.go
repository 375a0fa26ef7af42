package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCanvas loads canvas configuration.
// Search order: customPath -> ~/.canvas/configs/canvas.yaml -> ./configs/canvas.yaml -> embedded default
//
// Files only need to set the keys they change; everything else keeps its
// default. The result is validated before it is returned.
func LoadCanvas(customPath string) (CanvasConfig, error) {
	cfg := DefaultCanvasConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("canvas.yaml"); userCfgPath != "" {
		if loaded, ok := tryFile(userCfgPath, cfg); ok {
			return loaded, loaded.Validate()
		}
	}

	// Try local configs directory
	if loaded, ok := tryFile(filepath.Join("configs", "canvas.yaml"), cfg); ok {
		return loaded, loaded.Validate()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultCanvasYAML, &cfg); err != nil {
		return DefaultCanvasConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// tryFile overlays the YAML file at path onto base. Missing or malformed
// files are skipped so the next location can be tried.
func tryFile(path string, base CanvasConfig) (CanvasConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, false
	}
	return base, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".canvas", "configs", filename)
}
