// Package config loads the CLI driver's defaults from a TOML file: the
// target data layout (pointer width/alignment) and the default trace
// level. Neither the DLA graph nor the AST builder reads this package
// directly — they take an irtype.DataLayout and a trace.Level as plain
// values — this package only exists to give cmd/cdecomp a configuration
// surface, per SPEC_FULL's ambient-stack expansion of the core's own
// CLI-less contract (§6).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"cdecomp/internal/irtype"
	"cdecomp/internal/trace"
)

// Target names a configured data layout by label, so a config file can say
// "target = \"lp64\"" instead of spelling out bit widths.
type Target struct {
	Name         string `toml:"name"`
	PointerBits  uint32 `toml:"pointer_bits"`
	PointerAlign uint32 `toml:"pointer_align"`
}

// DataLayout converts t into the irtype.DataLayout the core consumes.
func (t Target) DataLayout() irtype.DataLayout {
	return irtype.DataLayout{PointerBits: t.PointerBits, PointerAlign: t.PointerAlign}
}

// Config is the full set of defaults cmd/cdecomp reads from disk, each
// overridable by a CLI flag.
type Config struct {
	Target     Target `toml:"target"`
	TraceLevel string `toml:"trace_level"`
	Color      bool   `toml:"color"`
	CacheDir   string `toml:"cache_dir"`
}

// lp64 is the default target: 64-bit pointers, 8-byte aligned, the layout
// this binary's demo path assumes absent an explicit --target flag.
func lp64() Target {
	return Target{Name: "lp64", PointerBits: 64, PointerAlign: 8}
}

// ilp32 is a 32-bit pointer target, offered alongside lp64 since the
// decompiled input may target either word size.
func ilp32() Target {
	return Target{Name: "ilp32", PointerBits: 32, PointerAlign: 4}
}

// NamedTargets are the built-in targets selectable by name, either from a
// config file's target.name or the --target flag.
var NamedTargets = map[string]Target{
	"lp64":  lp64(),
	"ilp32": ilp32(),
}

// Default returns the configuration used when no file is found: the lp64
// target, phase-level tracing, color on.
func Default() Config {
	return Config{
		Target:     lp64(),
		TraceLevel: "phase",
		Color:      true,
		CacheDir:   defaultCacheDir(),
	}
}

// Load reads a TOML config file at path, falling back to Default() for any
// field the file leaves unset. A missing file is not an error: it is
// treated the same as an empty one.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var onDisk Config
	md, err := toml.DecodeFile(path, &onDisk)
	if err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}

	if onDisk.Target.Name != "" {
		if named, ok := NamedTargets[onDisk.Target.Name]; ok {
			cfg.Target = named
		} else {
			cfg.Target = onDisk.Target
		}
	}
	if onDisk.TraceLevel != "" {
		cfg.TraceLevel = onDisk.TraceLevel
	}
	if md.IsDefined("color") {
		cfg.Color = onDisk.Color
	}
	if onDisk.CacheDir != "" {
		cfg.CacheDir = onDisk.CacheDir
	}
	return cfg, nil
}

// ParsedTraceLevel parses the configured trace level, falling back to Phase on an
// unrecognized string rather than failing the whole config load over it.
func (c Config) ParsedTraceLevel() trace.Level {
	lvl, err := trace.ParseLevel(c.TraceLevel)
	if err != nil {
		return trace.LevelPhase
	}
	return lvl
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return dir + "/cdecomp"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cdecomp-cache"
	}
	return home + "/.cache/cdecomp"
}
