package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Remote contains connection settings for the recruiting REST backend.
type Remote struct {
	BaseURL          string `toml:"base_url"`
	APIToken         string `toml:"api_token"`
	ProbeTimeoutMS   int    `toml:"probe_timeout_ms"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
	PersistTimeoutMS int    `toml:"persist_timeout_ms"`
}

// Board contains defaults for the pipeline board view.
type Board struct {
	DefaultSort        string `toml:"default_sort"`
	DefaultDirection   string `toml:"default_direction"`
	ConfirmDestructive bool   `toml:"confirm_destructive"`
}

// StageDef overrides one entry of the stage registry. When any stages are
// configured they replace the built-in workflow entirely, in file order.
type StageDef struct {
	ID          string `toml:"id"`
	Label       string `toml:"label"`
	Color       string `toml:"color"`
	Icon        string `toml:"icon"`
	Destructive bool   `toml:"destructive"`
}

// Server contains configuration for the reference board server (talentflowd).
type Server struct {
	Bind           string   `toml:"bind"`
	DBPath         string   `toml:"db_path"`
	APIToken       string   `toml:"api_token"`
	SeedFixtures   bool     `toml:"seed_fixtures"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for talentflow.
//
// Configuration sections by subsystem:
//   - Remote: REST backend location, credentials, and timeouts
//   - Board: default sort order and destructive-action confirmation
//   - Stages: optional replacement of the hiring workflow
//   - Server: reference board server bind address and storage
//   - Logging: log format, level, and directory
type Config struct {
	Remote  Remote     `toml:"remote"`
	Board   Board      `toml:"board"`
	Stages  []StageDef `toml:"stages"`
	Server  Server     `toml:"server"`
	Logging Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/talentflow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env file is the common case.
	_ = godotenv.Load()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %q is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("talentflow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the parent of the server database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Logging.Dir}
	if strings.TrimSpace(c.Server.DBPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Server.DBPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ProbeTimeout bounds the reconciler's startup health probe.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Remote.ProbeTimeoutMS) * time.Millisecond
}

// RequestTimeout bounds remote reads.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Remote.RequestTimeoutMS) * time.Millisecond
}

// PersistTimeout bounds a single best-effort status write.
func (c *Config) PersistTimeout() time.Duration {
	return time.Duration(c.Remote.PersistTimeoutMS) * time.Millisecond
}

// RemoteConfigured reports whether a remote backend URL is set.
func (c *Config) RemoteConfigured() bool {
	return strings.TrimSpace(c.Remote.BaseURL) != ""
}

// LockPath returns the single-instance lock file used by talentflowd.
func (c *Config) LockPath() string {
	return filepath.Join(c.Logging.Dir, "talentflowd.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
