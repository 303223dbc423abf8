package config

import (
	"os"
	"path/filepath"
	"testing"

	"cdecomp/internal/trace"
)

func TestDefault_IsLP64WithPhaseTracing(t *testing.T) {
	cfg := Default()
	if cfg.Target.Name != "lp64" {
		t.Fatalf("default target = %q, want lp64", cfg.Target.Name)
	}
	if cfg.TraceLevel != "phase" {
		t.Fatalf("default trace level = %q, want phase", cfg.TraceLevel)
	}
	if !cfg.Color {
		t.Fatal("expected color to default to true")
	}
}

func TestLoad_MissingPathReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target.Name != Default().Target.Name {
		t.Fatalf("expected missing-file Load to fall back to Default(), got %+v", cfg)
	}
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target.Name != Default().Target.Name {
		t.Fatalf("expected empty-path Load to fall back to Default(), got %+v", cfg)
	}
}

func TestLoad_OverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cdecomp.toml")
	contents := "trace_level = \"debug\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TraceLevel != "debug" {
		t.Fatalf("trace level = %q, want debug", cfg.TraceLevel)
	}
	if cfg.Target.Name != "lp64" {
		t.Fatalf("expected target to stay at its default lp64, got %q", cfg.Target.Name)
	}
}

func TestLoad_NamedTargetResolvesToBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cdecomp.toml")
	contents := "[target]\nname = \"ilp32\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target.PointerBits != 32 || cfg.Target.PointerAlign != 4 {
		t.Fatalf("target = %+v, want the built-in ilp32 layout", cfg.Target)
	}
}

func TestParsedTraceLevel_FallsBackOnUnrecognizedString(t *testing.T) {
	cfg := Default()
	cfg.TraceLevel = "not-a-real-level"
	if got := cfg.ParsedTraceLevel(); got != trace.LevelPhase {
		t.Fatalf("ParsedTraceLevel() = %v, want LevelPhase fallback", got)
	}
}

func TestTarget_DataLayoutMatchesPointerFields(t *testing.T) {
	dl := ilp32().DataLayout()
	if dl.PointerBits != 32 || dl.PointerAlign != 4 {
		t.Fatalf("DataLayout() = %+v, want 32-bit/4-byte pointers", dl)
	}
}
