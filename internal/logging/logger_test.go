package logging

import "testing"

func TestHelpersSafeBeforeInit(t *testing.T) {
	// Library code logs unconditionally; before Init (or after a failed
	// one) every helper must be a silent no-op, not a panic.
	Logger = nil
	Info("info", "k", "v")
	Debug("debug", "k", "v")
	Warn("warn", "k", "v")
	Error("error", "k", "v")
}
