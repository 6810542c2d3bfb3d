package tool

import (
	"fmt"
	"strings"
)

// StringArg returns args[key] when it is a string.
func StringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RequireString returns a non-blank string argument or an error wrapping
// ErrInvalidArguments.
func RequireString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidArguments, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidArguments, key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrInvalidArguments, key)
	}
	return s, nil
}
