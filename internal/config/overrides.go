package config

import (
	"fmt"
	"strings"
)

// OverridePrefix is the namespace of --config overrides.
const OverridePrefix = "cm."

// parseCLIConfigOverrides parses --config=cm.key=value format.
// Returns a map suitable for applyValues().
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)
	keyCount := make(map[string]int)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: cm.key=value (note: use = not space)", override)
		}

		if !strings.HasPrefix(fullKey, OverridePrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", OverridePrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, OverridePrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		// repeated keys become lists, as YAML sequences do
		keyCount[key]++
		switch keyCount[key] {
		case 1:
			result[key] = value
		case 2:
			result[key] = []any{result[key], value}
		default:
			result[key] = append(result[key].([]any), value)
		}
	}

	return result, nil
}

// ApplyCLIOverrides applies cm.key=value overrides on top of the loaded file.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyValues(c, data)
	return nil
}
