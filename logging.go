// Package-level structured logging for the loop's non-fatal diagnostics.
//
// The loop never lets a logging concern affect dispatch: every call site
// below first checks for a nil Logger. Construct a working Logger with
// logiface itself (see its WithWriter option) or with one of its writer
// integrations (e.g. logiface-zerolog), and pass it to NewLoop/DefaultLoop
// via WithLogger.
package uvloop

import (
	"github.com/joeycumines/logiface"
)

// Logger is the structured logger type accepted by WithLogger. It is a
// type alias (not a new interface) so callers can construct it with any of
// logiface's own options or writer integrations directly.
type Logger = *logiface.Logger[logiface.Event]

func (l *Loop) logWarn(msg string, fields map[string]any) {
	if l.cfg.logger == nil {
		return
	}
	b := l.cfg.logger.Warning()
	for k, v := range fields {
		b = b.Interface(k, v)
	}
	b.Log(msg)
}

func (l *Loop) logDebug(msg string, fields map[string]any) {
	if l.cfg.logger == nil {
		return
	}
	b := l.cfg.logger.Debug()
	for k, v := range fields {
		b = b.Interface(k, v)
	}
	b.Log(msg)
}
