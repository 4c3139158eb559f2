package util

import (
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsRunFile reports whether path looks like a YAML run file.
func IsRunFile(path string) bool {
	if !FileExists(path) {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ConditionLabel returns a display name for a run file condition, prefixed
// with the file stem when the file defines more than one condition.
func ConditionLabel(path, condition string, total int) string {
	if total <= 1 || path == "" {
		return condition
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "/" + condition
}
