// vcrlog.go — ambient structured logging. Wraps github.com/tliron/commonlog,
// configured with the simple console backend and scoped loggers per
// subsystem.
package vcrlog

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Verbosity mirrors commonlog's integer scale: 1=Error, 2=Warning,
// 3=Notice, 4=Info, 5=Debug.
type Verbosity int

const (
	Error   Verbosity = 1
	Warning Verbosity = 2
	Notice  Verbosity = 3
	Info    Verbosity = 4
	Debug   Verbosity = 5
)

// Configure installs the simple console backend at the given verbosity.
// Call once at process startup (e.g. from cmd/servirtium-lint's main).
func Configure(v Verbosity) {
	commonlog.Configure(int(v), nil)
}

// Logger is a named, scoped logger for one package.
type Logger struct {
	commonlog.Logger
}

// New returns a Logger scoped to name (e.g. "engine", "session").
func New(name string) Logger {
	return Logger{commonlog.GetLogger("servirtium." + name)}
}
