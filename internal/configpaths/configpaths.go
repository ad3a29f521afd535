// Package configpaths resolves the candidate locations of pikbd's
// configuration file.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "pikbd"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// ConfigCandidatePaths returns config file candidates grouped by format, in
// priority order: an explicit user path first, then the user config dir,
// then the machine-wide dir. Kong tries each candidate and skips the ones
// that do not exist.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".json":
			jsonPaths = append(jsonPaths, userCfg)
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userCfg)
		case ".toml":
			tomlPaths = append(tomlPaths, userCfg)
		default:
			// Unknown extension: give every loader a chance.
			jsonPaths = append(jsonPaths, userCfg)
			yamlPaths = append(yamlPaths, userCfg)
			tomlPaths = append(tomlPaths, userCfg)
		}
	}

	var dirs []string
	if d, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	if d, err := SystemConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	for _, dir := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(dir, "config.json"))
		yamlPaths = append(yamlPaths,
			filepath.Join(dir, "config.yaml"),
			filepath.Join(dir, "config.yml"))
		tomlPaths = append(tomlPaths, filepath.Join(dir, "config.toml"))
	}
	return jsonPaths, yamlPaths, tomlPaths
}
