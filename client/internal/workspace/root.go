// Package workspace locates the AstrBot installation the CLI operates on.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/astrbotdevs/astrctl/util"
)

const (
	// MarkerFile marks a directory as an AstrBot root
	MarkerFile = ".astrbot"
	// DataDir holds runtime data, including the dashboard build
	DataDir = "data"
	// ConfigFile is the CLI configuration, relative to DataDir
	ConfigFile = "cmd_config.json"
)

// IsRoot reports whether path is an AstrBot root directory
func IsRoot(path string) bool {
	if !util.DirExists(path) {
		return false
	}
	return util.FileExists(filepath.Join(path, MarkerFile))
}

// Root returns the AstrBot root directory, which is the current working directory
func Root() (string, error) {
	return os.Getwd()
}

// DataPath returns the data directory of root
func DataPath(root string) string {
	return filepath.Join(root, DataDir)
}

// ConfigPath returns the CLI configuration file of root
func ConfigPath(root string) string {
	return filepath.Join(root, DataDir, ConfigFile)
}
