package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/restorectl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "restorectl.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRestoreConfig(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[engine]
assembly_path = "/opt/msbuild/MSBuild.dll"
mono_prefix = "/usr"

[restore]
targets_path = "/opt/nuget/NuGet.restore.targets"
verbose = true
timeout = "2m"

[serve]
addr = "127.0.0.1:7080"
`)
	cfg, err := LoadRestoreConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.AssemblyPath != "/opt/msbuild/MSBuild.dll" {
		t.Fatalf("unexpected assembly path: %q", cfg.Engine.AssemblyPath)
	}
	if cfg.Engine.MonoPrefix != "/usr" {
		t.Fatalf("unexpected mono prefix: %q", cfg.Engine.MonoPrefix)
	}
	if !cfg.Restore.Verbose {
		t.Fatalf("expected verbose enabled")
	}
	d, err := cfg.Timeout()
	if err != nil {
		t.Fatalf("timeout: %v", err)
	}
	if d != 2*time.Minute {
		t.Fatalf("unexpected timeout: %v", d)
	}
	if cfg.Serve.Addr != "127.0.0.1:7080" {
		t.Fatalf("unexpected serve addr: %q", cfg.Serve.Addr)
	}
}

func TestLoadRestoreConfigDefaultsServeAddr(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[restore]
targets_path = "restore.targets"
`)
	cfg, err := LoadRestoreConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Serve.Addr != ":7080" {
		t.Fatalf("unexpected default serve addr: %q", cfg.Serve.Addr)
	}
	if d, err := cfg.Timeout(); err != nil || d != 0 {
		t.Fatalf("expected unbounded timeout, got %v err=%v", d, err)
	}
}

func TestLoadRestoreConfigMissingTargets(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[restore]
verbose = true
`)
	if _, err := LoadRestoreConfig(path); err == nil {
		t.Fatalf("expected missing targets_path to fail validation")
	}
}

func TestLoadRestoreConfigBadTimeout(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[restore]
targets_path = "restore.targets"
timeout = "soon"
`)
	if _, err := LoadRestoreConfig(path); err == nil {
		t.Fatalf("expected invalid timeout to fail validation")
	}
}

func TestLoadRestoreConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadRestoreConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected load error for missing file")
	}
}
