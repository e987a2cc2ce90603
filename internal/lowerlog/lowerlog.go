// Package lowerlog wraps go.uber.org/zap to give a batch lowering run
// optional structured, leveled logging, following the no-op-by-default
// pattern wippyai-wasm-runtime's linker package uses for its logger: the
// pass stays side-effect-free unless the caller supplies a real logger
// (spec §5 "no operation suspends or blocks").
package lowerlog

import "go.uber.org/zap"

var noop = zap.NewNop()

// MethodStart logs entry into lowering a single method.
func MethodStart(logger *zap.Logger, methodName string) {
	effective(logger).Debug("lowering method", zap.String("method", methodName))
}

// MethodDone logs the result of lowering a single method: how many blocks
// and instructions the CFG ended up with.
func MethodDone(logger *zap.Logger, methodName string, blockCount, instrCount int) {
	effective(logger).Debug("lowered method",
		zap.String("method", methodName),
		zap.Int("blocks", blockCount),
		zap.Int("instructions", instrCount),
	)
}

// Diagnostic logs one enqueued diagnostic at warn level, with its code and
// method context.
func Diagnostic(logger *zap.Logger, methodName, code, message string) {
	effective(logger).Warn("diagnostic enqueued during lowering",
		zap.String("method", methodName),
		zap.String("code", code),
		zap.String("message", message),
	)
}

func effective(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return noop
	}
	return logger
}
