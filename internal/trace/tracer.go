package trace

import (
	"fmt"
	"io"
	"os"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level      Level       // tracing level
	Format     Format      // output format
	Output     io.Writer   // destination (if nil, OutputPath is used)
	OutputPath string      // alternative: file path ("-" for stderr)
	Subsystems []Subsystem // if non-empty, only these subsystems are emitted
}

// New creates a Tracer based on Config. Tracing in this core is always
// stream-based: events are written as they are emitted, never buffered for
// later replay, since a single CLI invocation has no session to resume.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}

	st := NewStreamTracer(w, cfg.Level, cfg.Format)
	if len(cfg.Subsystems) > 0 {
		st.SetSubsystemFilter(cfg.Subsystems)
	}
	return st, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}

	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}

	return f, nil
}
