// Package profile provides optional runtime profiling backed by
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Profiler.Start] returns a no-op.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/skoobert"}
//	defer p.Start().Stop()
//
// Profiles are analyzed with go tool pprof, e.g.:
//
//	go tool pprof -http=: /tmp/skoobert/cpu.pprof
package profile
