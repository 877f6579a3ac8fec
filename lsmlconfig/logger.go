package lsmlconfig

import (
	"log/slog"

	"github.com/shua5115/lsml/parser"
)

// SlogErrorLogger adapts log/slog into the parser's plain-function
// ErrorLogger contract (spec.md section 6): every logged parse error is
// emitted as a structured slog.Warn record, and the parse is aborted
// only if abortOnError is set, matching Options.Strict.
func SlogErrorLogger(abortOnError bool) parser.ErrorLogger {
	return func(kind parser.ErrorKind, line int) bool {
		slog.Warn("lsml parse error", "kind", kind.String(), "line", line)
		return abortOnError
	}
}
