package config

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// AdrDir is the directory ADR documents are written to.
	// Relative paths are resolved against the application base directory.
	AdrDir string `json:"adr_dir,omitempty"`

	// BlipDir is the directory blip documents are written to.
	BlipDir string `json:"blip_dir,omitempty"`

	// DatabaseName is the SQLite file name inside the base directory.
	DatabaseName string `json:"database_name,omitempty"`

	// Author is recorded in blip documents. Empty means: ask git.
	Author string `json:"author,omitempty"`

	// SweepPeriodMS is the radar sweep rotation period in milliseconds.
	SweepPeriodMS int `json:"sweep_period_ms,omitempty"`

	// TickMS is the TUI render tick interval in milliseconds.
	TickMS int `json:"tick_ms,omitempty"`

	// DBMaxOpenConns limits open database connections.
	// 0 means use sql.DB default. Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AdrDir:        "adrs",
		BlipDir:       "blips",
		DatabaseName:  "radr.db",
		SweepPeriodMS: 4000,
		TickMS:        100,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.radr.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.radr) and repo (.radr)
// directories. Repo config is found by walking upward from startDir to find
// the nearest .radr/config.json and takes precedence for scalar values.
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .radr/config.json. Returns the path if found, or empty string.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".radr", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Merge overlays onto base: non-zero scalars from overlay win, array values
// are merged and deduplicated. Neither argument is mutated.
func Merge(base, overlay *Config) *Config {
	if base == nil {
		base = &Config{}
	}
	merged := *base
	if overlay == nil {
		return &merged
	}

	if overlay.AdrDir != "" {
		merged.AdrDir = overlay.AdrDir
	}
	if overlay.BlipDir != "" {
		merged.BlipDir = overlay.BlipDir
	}
	if overlay.DatabaseName != "" {
		merged.DatabaseName = overlay.DatabaseName
	}
	if overlay.Author != "" {
		merged.Author = overlay.Author
	}
	if overlay.SweepPeriodMS > 0 {
		merged.SweepPeriodMS = overlay.SweepPeriodMS
	}
	if overlay.TickMS > 0 {
		merged.TickMS = overlay.TickMS
	}
	if overlay.DBMaxOpenConns > 0 {
		merged.DBMaxOpenConns = overlay.DBMaxOpenConns
	}
	if overlay.DBMaxIdleConns > 0 {
		merged.DBMaxIdleConns = overlay.DBMaxIdleConns
	}
	if len(overlay.DisabledTools) > 0 {
		merged.DisabledTools = dedupe(append(append([]string{}, base.DisabledTools...), overlay.DisabledTools...))
	}

	return &merged
}

// ResolveAdrDir returns the ADR document directory as an absolute path,
// joining relative values onto baseDir.
func (c *Config) ResolveAdrDir(baseDir string) string {
	return resolveDir(baseDir, c.AdrDir)
}

// ResolveBlipDir returns the blip document directory as an absolute path,
// joining relative values onto baseDir.
func (c *Config) ResolveBlipDir(baseDir string) string {
	return resolveDir(baseDir, c.BlipDir)
}

func resolveDir(baseDir, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

// ResolveAuthor returns the configured author, falling back to the git
// user.name of the invoking user, then to "unknown author".
func (c *Config) ResolveAuthor() string {
	if c.Author != "" {
		return c.Author
	}
	out, err := exec.Command("git", "config", "--get", "user.name").Output()
	if err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name
		}
	}
	return "unknown author"
}

func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
