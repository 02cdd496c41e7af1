// Package trace records what the crash pipeline and its host were doing.
//
// The fault handler opens a span per pipeline stage (capture, persist,
// render). Host programs add breadcrumbs, point events describing what the
// program was doing shortly before it failed. Keeping them in a RingTracer
// lets the handler attach the most recent ones to the crash report.
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer dumped into crash reports
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only the fault itself
//   - LevelPhase: fault plus pipeline stages
//   - LevelDetail: everything above plus host breadcrumbs
//   - LevelDebug: everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStage, "persist", parentID)
//	defer span.End("")
package trace
