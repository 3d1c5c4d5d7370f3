package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscape marks a tool-call path that would resolve outside the
// run's project root. Such calls fail before touching the filesystem.
var ErrPathEscape = errors.New("path escapes sandbox")

// pathKeys are the argument keys the sandbox rewrites before dispatch.
var pathKeys = []string{"path", "file_path"}

// SafeJoin resolves a model-supplied path against the project root and
// guarantees the result stays at or under it. The candidate is cleaned
// before the containment check, so traversal sequences like a/../../b are
// caught rather than concatenated.
func SafeJoin(root, path string) (string, error) {
	if root == "" {
		return "", errors.New("sandbox root not configured")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("cannot resolve sandbox root: %w", err)
	}
	abs = filepath.Clean(abs)

	if path == "" || path == "." {
		return abs, nil
	}

	p := filepath.Clean(path)
	if filepath.IsAbs(p) {
		if !withinRoot(abs, p) {
			return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
		}
		return p, nil
	}

	candidate := filepath.Clean(filepath.Join(abs, p))
	if !withinRoot(abs, candidate) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	return candidate, nil
}

func withinRoot(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// rewritePaths applies SafeJoin to whichever recognized path key is present
// in the parsed argument mapping.
func rewritePaths(root string, params map[string]any) error {
	for _, key := range pathKeys {
		raw, ok := params[key]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", key)
		}
		joined, err := SafeJoin(root, value)
		if err != nil {
			return err
		}
		params[key] = joined
	}
	return nil
}
