package log

import (
	"context"
	"io"
	stdlog "log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// New returns a logger writing to w. Only V-levels up to verbosity are
// printed.
func New(w io.Writer, verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.NewWithOptions(stdlog.New(w, "", stdlog.LstdFlags), stdr.Options{
		LogCaller: stdr.Error,
	}).WithName("gqlimport")
}

// SetVerbosity changes the verbosity of every logger made by New.
func SetVerbosity(verbosity int) {
	stdr.SetVerbosity(verbosity)
}
