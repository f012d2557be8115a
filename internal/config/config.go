// Package config loads the codemedic configuration from YAML, the environment
// and command line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chmouel/codemedic/internal/theme"
	"github.com/chmouel/codemedic/internal/utils"
	"gopkg.in/yaml.v3"
)

const appName = "codemedic"

// Environment variables consulted for the GitHub token, highest precedence first.
const (
	TokenEnv       = "CODEMEDIC_GITHUB_TOKEN"
	GitHubTokenEnv = "GITHUB_TOKEN"
)

// TokenSource records where the active GitHub token came from.
type TokenSource string

// Token sources.
const (
	TokenSourceNone   TokenSource = ""
	TokenSourceFlag   TokenSource = "flag"
	TokenSourceEnv    TokenSource = "env"
	TokenSourceConfig TokenSource = "config"
)

// AppConfig defines the global codemedic configuration options.
type AppConfig struct {
	GitHubToken      string
	TokenSource      TokenSource
	APIURL           string
	Theme            string
	ShowIcons        bool // Render Nerd Font icons in the explorer (default: true)
	DebugLog         string
	RequestTimeout   time.Duration
	FallbackBranches []string
	MaxFileBytes     int64
	ExpandDepth      int // Folders shallower than this start expanded
	ArchiveStripRoot bool
	TabWidth         int

	// Path is the file the configuration was read from, empty for defaults.
	Path string

	fileToken string
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		APIURL:           "https://api.github.com",
		Theme:            theme.DefaultDark(),
		ShowIcons:        true,
		RequestTimeout:   30 * time.Second,
		FallbackBranches: []string{"main", "master", "dev", "develop"},
		MaxFileBytes:     1 << 20,
		ExpandDepth:      2,
		ArchiveStripRoot: true,
		TabWidth:         4,
	}
}

// normalizeList converts a scalar or YAML list into a list of trimmed strings.
func normalizeList(value any) []string {
	if value == nil {
		return []string{}
	}

	switch v := value.(type) {
	case string:
		out := []string{}
		for _, part := range strings.Split(v, ",") {
			if text := strings.TrimSpace(part); text != "" {
				out = append(out, text)
			}
		}
		return out
	case []any:
		out := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				out = append(out, text)
			}
		}
		return out
	}
	return []string{}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case float64:
		return int(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyValues(cfg, data)
	return cfg
}

// applyValues overlays the recognised keys of data onto cfg. Unknown keys and
// invalid values are ignored.
func applyValues(cfg *AppConfig, data map[string]any) {
	if v, ok := data["github_token"]; ok {
		cfg.fileToken = coerceString(v)
	}
	if v := coerceString(data["api_url"]); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v, ok := data["theme"]; ok {
		if name := theme.NormalizeThemeName(coerceString(v)); name != "" {
			cfg.Theme = name
		}
	}
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	if v := coerceString(data["debug_log"]); v != "" {
		if expanded, err := utils.ExpandPath(v); err == nil {
			cfg.DebugLog = expanded
		}
	}
	if secs := coerceInt(data["request_timeout"], 0); secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
	if v, ok := data["fallback_branches"]; ok {
		cfg.FallbackBranches = normalizeList(v)
	}
	if n := coerceInt(data["max_file_bytes"], 0); n > 0 {
		cfg.MaxFileBytes = int64(n)
	}
	if n := coerceInt(data["expand_depth"], -1); n >= 0 {
		cfg.ExpandDepth = n
	}
	cfg.ArchiveStripRoot = coerceBool(data["archive_strip_root"], cfg.ArchiveStripRoot)
	if n := coerceInt(data["tab_width"], 0); n > 0 {
		cfg.TabWidth = n
	}
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// ConfigDir returns the directory codemedic reads its configuration from.
func ConfigDir() string {
	return filepath.Clean(filepath.Join(getConfigDir(), appName))
}

// ResolvePath returns the configuration file LoadConfig would read, or "" when
// none exists yet.
func ResolvePath(configPath string) (string, error) {
	configBase := ConfigDir()

	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return "", err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return "", err
		}
		if !isPathWithin(configBase, absPath) {
			return "", fmt.Errorf("config path must reside inside %s", configBase)
		}
		return absPath, nil
	}

	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(configBase, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// LoadConfig reads the application configuration from a YAML file. A missing
// file yields the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	path, err := ResolvePath(configPath)
	if err != nil {
		return DefaultConfig(), err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return loadFile(path)
}

func loadFile(path string) (*AppConfig, error) {
	// #nosec G304 -- path is constrained to the config directory by ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.Path = path
			return cfg, nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read %s: %w", path, err)
	}

	var yamlData map[string]any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := parseConfig(yamlData)
	cfg.Path = path
	return cfg, nil
}

// ResolveToken picks the GitHub token: the flag value, then CODEMEDIC_GITHUB_TOKEN,
// then GITHUB_TOKEN, then github_token from the config file.
func (c *AppConfig) ResolveToken(flagToken string) {
	candidates := []struct {
		value  string
		source TokenSource
	}{
		{flagToken, TokenSourceFlag},
		{os.Getenv(TokenEnv), TokenSourceEnv},
		{os.Getenv(GitHubTokenEnv), TokenSourceEnv},
		{c.fileToken, TokenSourceConfig},
	}
	for _, cand := range candidates {
		if token := strings.TrimSpace(cand.value); token != "" {
			c.GitHubToken = token
			c.TokenSource = cand.source
			return
		}
	}
	c.GitHubToken = ""
	c.TokenSource = TokenSourceNone
}

// ReloadToken adopts the file token of fresh when no flag or environment
// token takes precedence. It reports whether the active token changed.
func (c *AppConfig) ReloadToken(fresh *AppConfig) (string, bool) {
	if fresh == nil || c.TokenSource == TokenSourceFlag || c.TokenSource == TokenSourceEnv {
		return c.GitHubToken, false
	}
	c.fileToken = fresh.fileToken
	previous := c.GitHubToken
	c.ResolveToken("")
	return c.GitHubToken, c.GitHubToken != previous
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
