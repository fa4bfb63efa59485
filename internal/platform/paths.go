package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandUser replaces a leading ~ with the current user's home directory
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Coerce resolves value against base unless value is already absolute
func Coerce(base, value string) string {
	value = ExpandUser(value)
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(base, value)
}

// IsModFile reports whether name carries one of the managed mod extensions
func IsModFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jar", ".zip":
		return true
	}
	return false
}
