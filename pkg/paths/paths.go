// Package paths resolves file locations taken from configuration.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvLogDir overrides where bare log file names are placed.
const EnvLogDir = "DISPATCH_LOG_DIR"

// ExpandHome replaces a leading "~" with the user's home directory. Paths
// without one are returned trimmed but otherwise untouched.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}

// LogsDir is $DISPATCH_LOG_DIR when set, otherwise .dispatch/logs relative
// to the working directory.
func LogsDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		return filepath.Clean(ExpandHome(dir))
	}
	return filepath.Join(".dispatch", "logs")
}

// LogFile resolves a configured log or trace path. A bare file name lands
// in LogsDir; anything with a directory part is only home-expanded.
func LogFile(path string) string {
	path = ExpandHome(path)
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) || strings.ContainsRune(path, filepath.Separator) {
		return filepath.Clean(path)
	}
	return filepath.Join(LogsDir(), path)
}
