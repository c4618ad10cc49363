package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joelmoss/svnscm/internal/errs"
)

// Keys lists the settable configuration keys. Environment overrides are set
// with "env.NAME".
var Keys = []string{"enabled", "path", "min_version", "env"}

// Config manages the svn integration settings stored at ~/.config/svnscm/config.json.
type Config struct {
	path string
}

// New creates a Config. If configPath is empty, uses the default location.
func New(configPath string) *Config {
	if configPath == "" {
		home, _ := os.UserHomeDir()
		configPath = filepath.Join(home, ".config", "svnscm", "config.json")
	}
	return &Config{path: configPath}
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.path
}

// Read returns the config data as a map, or an empty map if the file doesn't exist.
func (c *Config) Read() (map[string]any, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", c.path, err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Write persists the config data to disk, creating directories as needed.
func (c *Config) Write(data map[string]any) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0o644)
}

// Settings is one consistent snapshot of the config file.
type Settings struct {
	Enabled    bool
	PathHint   string
	MinVersion string
	Env        map[string]string
}

// Load reads the file once and returns every setting from that read.
func (c *Config) Load() (Settings, error) {
	data, err := c.Read()
	if err != nil {
		return Settings{}, err
	}
	return settingsFrom(data), nil
}

func settingsFrom(data map[string]any) Settings {
	st := Settings{Enabled: true, Env: envMap(data)}
	if v, ok := data["enabled"].(bool); ok {
		st.Enabled = v
	}
	if p, ok := data["path"].(string); ok && p != "" {
		st.PathHint = expandPath(p)
	}
	st.MinVersion, _ = data["min_version"].(string)
	return st
}

// Enabled reports whether the integration is turned on. Defaults to true.
func (c *Config) Enabled() (bool, error) {
	st, err := c.Load()
	return st.Enabled, err
}

// PathHint returns the configured svn executable path, with ~ expanded, or
// an empty string.
func (c *Config) PathHint() (string, error) {
	st, err := c.Load()
	return st.PathHint, err
}

// Get returns the string form of a key for display.
func (c *Config) Get(key string) (string, error) {
	data, err := c.Read()
	if err != nil {
		return "", err
	}

	switch {
	case key == "enabled":
		return strconv.FormatBool(settingsFrom(data).Enabled), nil
	case key == "path", key == "min_version":
		v, _ := data[key].(string)
		return v, nil
	case key == "env":
		env := envMap(data)
		names := make([]string, 0, len(env))
		for k := range env {
			names = append(names, k)
		}
		sort.Strings(names)
		pairs := make([]string, len(names))
		for i, k := range names {
			pairs[i] = k + "=" + env[k]
		}
		return strings.Join(pairs, " "), nil
	case strings.HasPrefix(key, "env."):
		return envMap(data)[strings.TrimPrefix(key, "env.")], nil
	}
	return "", fmt.Errorf("%w: %s", errs.ErrUnknownKey, key)
}

// Set validates and stores a key. An empty value removes path, min_version
// and env.NAME keys.
func (c *Config) Set(key, value string) error {
	data, err := c.Read()
	if err != nil {
		return err
	}

	switch {
	case key == "enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("enabled must be true or false, got %q", value)
		}
		data["enabled"] = b
	case key == "path", key == "min_version":
		if value == "" {
			delete(data, key)
		} else {
			data[key] = value
		}
	case strings.HasPrefix(key, "env.") && len(key) > len("env."):
		env, ok := data["env"].(map[string]any)
		if !ok {
			env = map[string]any{}
		}
		name := strings.TrimPrefix(key, "env.")
		if value == "" {
			delete(env, name)
		} else {
			env[name] = value
		}
		if len(env) == 0 {
			delete(data, "env")
		} else {
			data["env"] = env
		}
	default:
		return fmt.Errorf("%w: %s", errs.ErrUnknownKey, key)
	}

	return c.Write(data)
}

func envMap(data map[string]any) map[string]string {
	result := map[string]string{}
	env, ok := data["env"].(map[string]any)
	if !ok {
		return result
	}
	for k, v := range env {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	return result
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
