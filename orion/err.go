package orion

import (
	"fmt"
	"log/slog"
)

// Handle panics if err is not nil. Use it for errors the application
// can not recover from, e.g. during startup.
func Handle(err error, desc string, args ...any) {
	if err != nil {
		text := fmt.Sprintf(desc, args...)
		slog.Error(text, slog.Any("err", err))
		panic(text + ": " + err.Error())
	}
}

// logFailure logs err if it is not nil. Used where a caller has no way to
// return the error, e.g. in input callbacks.
func logFailure(err error, desc string, args ...any) {
	if err != nil {
		slog.Warn(fmt.Sprintf(desc, args...), slog.Any("err", err))
	}
}
