// Package trace provides the diagnostic event stream for the decompiler core.
//
// Every subsystem (the DLA graph, the AST builder, the CLI driver) emits
// events through a shared Tracer, tagged with a Subsystem and gated by a
// Level. Downstream consumers can enable tracing for one subsystem at a time
// without recompiling or touching the core's own code.
//
//	t := trace.NewStreamTracer(os.Stderr, trace.LevelDetail, trace.FormatText)
//	span := trace.Begin(t, trace.SubsystemDLA, trace.ScopePass, "normalize-equalities", 0)
//	defer span.End("")
package trace
