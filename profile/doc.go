// Package profile provides optional runtime profiling using
// [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag:
//
//	go build -tags pprof .
//	preconfig --pprof-mode cpu --pprof-dir ./prof gen config.cym.tpl
//
// Without the tag, [Modes] is empty and [Profiler.Start] is a no-op.
// The resulting profiles are read with "go tool pprof".
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
