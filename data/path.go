package data

import (
	"fmt"
	"strings"
)

// CleanPath normalizes a virtual path to a canonical absolute form:
// leading slash, no trailing slash, no empty components.
// Returns ErrInvalidPath for empty input or components of "." / "..".
func CleanPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parts := make([]string, 0, 8)
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if part == "." || part == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		parts = append(parts, part)
	}

	return "/" + strings.Join(parts, "/"), nil
}

// SplitPath returns the components of a cleaned path.
// The root path yields an empty slice.
func SplitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// BaseName returns the final component of a cleaned path, or "/" for root.
func BaseName(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return parts[len(parts)-1]
}

// HasPathPrefix checks if path lies at or below prefix.
// Both paths must be cleaned before calling.
func HasPathPrefix(path, prefix string) bool {
	// Root matches everything
	if prefix == "/" {
		return true
	}

	// Exact match
	if path == prefix {
		return true
	}

	return strings.HasPrefix(path, prefix+"/")
}

// TrimPathPrefix removes prefix from path and any leading slash of the
// remainder. Returns "" when path equals prefix.
func TrimPathPrefix(path, prefix string) string {
	if prefix == "/" {
		return strings.TrimPrefix(path, "/")
	}

	if path == prefix {
		return ""
	}

	rel := strings.TrimPrefix(path, prefix)
	return strings.TrimPrefix(rel, "/")
}
