//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// SystemConfigDir returns the machine-wide configuration directory.
// Services started as root read /etc/pikbd.
func SystemConfigDir() (string, error) {
	return filepath.Join(string(os.PathSeparator), "etc", appDir), nil
}
