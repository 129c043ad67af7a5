// Package config holds application configuration, layered as
// defaults < environment < flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	Host string
	Port int

	// ProjectsDir is an explicit projects directory. When empty,
	// EffectiveProjectsDir falls back from LocalProjectsDir to
	// HomeProjectsDir.
	ProjectsDir string

	// LocalProjectsDir is a working copy of session data next to
	// the binary, preferred over the live home directory when it
	// has content.
	LocalProjectsDir string

	// HomeProjectsDir is the live Claude Code data location,
	// ~/.claude/projects.
	HomeProjectsDir string
}

// Default returns a Config with default values.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf(
			"determining home directory: %w", err,
		)
	}
	return Config{
		Host:             "127.0.0.1",
		Port:             8100,
		LocalProjectsDir: "projects",
		HomeProjectsDir: filepath.Join(
			home, ".claude", "projects",
		),
	}, nil
}

// Load builds a Config from defaults and environment variables.
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	cfg.loadEnv()
	return cfg, nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("PROJECTS_PATH"); v != "" {
		c.ProjectsDir = v
	}
	if v := os.Getenv("BACKEND_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("BACKEND_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Port = port
		}
	}
}

// EffectiveProjectsDir returns the projects directory to read: the
// explicit dir when set, otherwise a non-empty local copy, otherwise
// the home directory location. No data source at all is the only
// hard failure.
func (c *Config) EffectiveProjectsDir() (string, error) {
	if c.ProjectsDir != "" {
		if _, err := os.Stat(c.ProjectsDir); err != nil {
			return "", fmt.Errorf(
				"projects directory unavailable: %w", err,
			)
		}
		return c.ProjectsDir, nil
	}
	if hasEntries(c.LocalProjectsDir) {
		return c.LocalProjectsDir, nil
	}
	if _, err := os.Stat(c.HomeProjectsDir); err == nil {
		return c.HomeProjectsDir, nil
	}
	return "", fmt.Errorf("no projects data found")
}

func hasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
