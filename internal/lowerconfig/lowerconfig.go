// Package lowerconfig carries the options a driver threads through a batch
// lowering run, modeled on the teacher's context_v2.Config.
package lowerconfig

import "go.uber.org/zap"

// Options configures one invocation of the lowering pass over a method or
// a batch of methods.
type Options struct {
	// Logger receives the structured logs described in internal/lowerlog.
	// Nil means no logging, matching spec §5's side-effect-free default.
	Logger *zap.Logger

	// TagSyntheticLocations controls whether the iterator-block parameter
	// bindings the walker synthesizes get a zero-length location (spec §3's
	// IDE-hidden convention) instead of the call's own location. Defaults to
	// true; a driver building debug tooling can set it false to inspect
	// every synthetic instruction at its true anchor location instead.
	TagSyntheticLocations bool
}

// Default returns the options a driver should use absent any explicit
// configuration.
func Default() Options {
	return Options{TagSyntheticLocations: true}
}
