// Package storage persists receipt files under opaque, relative keys.
package storage

import (
	"fmt"
	"path"
	"strings"
)

// sanitizeKey normalizes a storage key and rejects anything that could
// resolve outside the storage root: empty keys, absolute paths, backslashes
// and "."/".." components.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}

	parts := make([]string, 0, 4)
	for _, component := range strings.Split(key, "/") {
		switch component {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("invalid storage key: %q", key)
		default:
			parts = append(parts, component)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}

	return path.Join(parts...), nil
}
