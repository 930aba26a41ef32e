package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const sep = string(filepath.Separator)

// NormalizeDir converts both slash styles to the platform separator,
// collapses runs of separators and appends a trailing separator. A
// leading UNC double separator is preserved on Windows.
func NormalizeDir(path string) string {
	unc := IsUNCPath(path)

	normalized := strings.NewReplacer("/", sep, "\\", sep).Replace(path)
	for strings.Contains(normalized, sep+sep) {
		normalized = strings.ReplaceAll(normalized, sep+sep, sep)
	}

	if unc && !strings.HasPrefix(normalized, sep+sep) {
		normalized = sep + normalized
	}
	if !strings.HasSuffix(normalized, sep) {
		normalized += sep
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// Canonical resolves symbolic links and returns an absolute path. When the
// path cannot be resolved (it does not exist, or a component is not
// readable) the literal path is returned with ok set to false.
func Canonical(path string) (canonical string, ok bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return path, false
	}
	return abs, true
}

// HomeDir returns the current user's home directory, or an empty string
// when it cannot be determined
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	// Check for invalid characters based on OS
	if runtime.GOOS == "windows" {
		invalidChars := []string{"<", ">", "\"", "|", "?", "*"}
		for _, char := range invalidChars {
			if strings.Contains(path, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
