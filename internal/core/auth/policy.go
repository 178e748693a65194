package auth

import "strings"

// Required reports whether the request path must carry credentials, given
// the deployment's excluded-path patterns.
//
// Matching is exact after stripping a single trailing slash from both the
// path and each pattern; a pattern ending in '*' matches any path with the
// pattern's prefix. An empty path or an empty exclusion list always requires
// auth (fail safe).
func Required(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}

	normalized := strings.TrimSuffix(path, "/")
	for _, pattern := range excluded {
		pattern = strings.TrimSuffix(pattern, "/")
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(normalized, prefix) {
				return false
			}
		} else if normalized == pattern {
			return false
		}
	}
	return true
}
