package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != 8100 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if filepath.Base(cfg.HomeProjectsDir) != "projects" {
		t.Errorf("HomeProjectsDir = %q", cfg.HomeProjectsDir)
	}
	if cfg.ProjectsDir != "" {
		t.Errorf("ProjectsDir = %q, want empty", cfg.ProjectsDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROJECTS_PATH", "/data/projects")
	t.Setenv("BACKEND_HOST", "0.0.0.0")
	t.Setenv("BACKEND_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProjectsDir != "/data/projects" {
		t.Errorf("ProjectsDir = %q", cfg.ProjectsDir)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
}

func TestLoadEnvBadPortIgnored(t *testing.T) {
	t.Setenv("BACKEND_PORT", "not-a-port")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8100 {
		t.Errorf("Port = %d, want default 8100", cfg.Port)
	}
}

func TestEffectiveProjectsDirExplicit(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{ProjectsDir: dir}

	got, err := cfg.EffectiveProjectsDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("got %q, want %q", got, dir)
	}
}

func TestEffectiveProjectsDirExplicitMissing(t *testing.T) {
	cfg := Config{ProjectsDir: "/no/such/dir"}
	if _, err := cfg.EffectiveProjectsDir(); err == nil {
		t.Fatal("expected error for missing explicit dir")
	}
}

func TestEffectiveProjectsDirLocalFallback(t *testing.T) {
	local := t.TempDir()
	err := os.WriteFile(
		filepath.Join(local, "marker"), []byte("x"), 0o644,
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{
		LocalProjectsDir: local,
		HomeProjectsDir:  "/no/such/home",
	}

	got, err := cfg.EffectiveProjectsDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != local {
		t.Errorf("got %q, want %q", got, local)
	}
}

func TestEffectiveProjectsDirEmptyLocalSkipped(t *testing.T) {
	home := t.TempDir()
	cfg := Config{
		LocalProjectsDir: t.TempDir(), // exists but empty
		HomeProjectsDir:  home,
	}

	got, err := cfg.EffectiveProjectsDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != home {
		t.Errorf("got %q, want home %q", got, home)
	}
}

func TestEffectiveProjectsDirNoSource(t *testing.T) {
	cfg := Config{
		LocalProjectsDir: "/no/such/local",
		HomeProjectsDir:  "/no/such/home",
	}
	if _, err := cfg.EffectiveProjectsDir(); err == nil {
		t.Fatal("expected error when no data source exists")
	}
}
