package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDirHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OAS_HOME", dir)

	if got := Dir(); got != dir {
		t.Errorf("Dir() = %q, want %q", got, dir)
	}
	if got, want := FilePath(), filepath.Join(dir, "config.yaml"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestSetThenLoad(t *testing.T) {
	t.Setenv("OAS_HOME", filepath.Join(t.TempDir(), "nested"))
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if err := Set(KeyRuntime, "go"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	viper.Reset()
	Load()
	if got := Get(KeyRuntime); got != "go" {
		t.Errorf("Get(%q) = %q, want %q", KeyRuntime, got, "go")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OAS_HOME", t.TempDir())
	t.Setenv("OAS_LOG_LEVEL", "debug")
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load()
	if got := Get(KeyLogLevel); got != "debug" {
		t.Errorf("Get(%q) = %q, want %q", KeyLogLevel, got, "debug")
	}
}
