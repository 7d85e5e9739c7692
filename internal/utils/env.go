package utils

import (
	"os"
	"strings"
)

// SafeEnv reads key from the environment, returning fallback when the
// variable is unset or blank.
func SafeEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
