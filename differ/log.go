package differ

import "github.com/decred/slog"

// log is a logger that is initialized with no output filters. The package
// will not perform any logging by default until the caller requests it.
var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}
