package registry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type-safe extraction helpers for ProbeConfig.Settings.
// Values may come from YAML (int, []any), viper (string) or flags ([]int),
// so each helper accepts every shape it can reasonably convert.

// GetString extracts a string value with a default fallback.
// Empty strings fall back to the default.
func GetString(settings map[string]any, key, defaultValue string) string {
	if val, ok := settings[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// GetInt extracts an int value with a default fallback.
// Handles int, int64, float64 (JSON numbers) and numeric strings.
func GetInt(settings map[string]any, key string, defaultValue int) int {
	if n, ok := toInt(settings[key]); ok {
		return n
	}
	return defaultValue
}

// GetBool extracts a bool value with a default fallback.
func GetBool(settings map[string]any, key string, defaultValue bool) bool {
	switch v := settings[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetDuration extracts a time.Duration with a default fallback.
// Accepts:
//   - time.Duration (direct)
//   - string (parsed via time.ParseDuration, e.g. "3s")
//   - int / float64 (seconds)
func GetDuration(settings map[string]any, key string, defaultValue time.Duration) time.Duration {
	switch v := settings[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return defaultValue
}

// GetStringSlice extracts a []string with a default fallback.
// Accepts []string, []any of strings, or a comma separated string.
// Returns the default if any element is not a string.
func GetStringSlice(settings map[string]any, key string, defaultValue []string) []string {
	switch v := settings[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return defaultValue
			}
			out = append(out, s)
		}
		return out
	case string:
		return splitCSV(v)
	}
	return defaultValue
}

// GetIntSlice extracts a []int with a default fallback.
// Accepts []int, []any of numbers, or a comma separated string ("22,80").
// Returns the default if any element is not numeric.
func GetIntSlice(settings map[string]any, key string, defaultValue []int) []int {
	var items []any
	switch v := settings[key].(type) {
	case []int:
		return v
	case []any:
		items = v
	case string:
		for _, s := range splitCSV(v) {
			items = append(items, s)
		}
	default:
		return defaultValue
	}

	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := toInt(item)
		if !ok {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidatePositiveInt validates that an int field is positive (> 0).
func ValidatePositiveInt(fieldName string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", fieldName, value)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive.
func ValidatePositiveDuration(fieldName string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", fieldName, value)
	}
	return nil
}

// ValidatePortRange validates that every port is within 1..65535.
func ValidatePortRange(fieldName string, ports []int) error {
	for _, p := range ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("%s contains invalid port %d", fieldName, p)
		}
	}
	return nil
}
