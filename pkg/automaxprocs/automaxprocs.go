package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	undo func()

	initialMaxProcs = Current()
)

// Init aligns GOMAXPROCS with the container CPU quota, if one is configured.
// It is a no-op on non-Linux systems and when the GOMAXPROCS environment
// variable already pins the value.
func Init() error {
	log := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.Int("prev_maxprocs", initialMaxProcs),
	)

	// maxprocs.Set reports through a printf-style callback; the first value,
	// when present, is the GOMAXPROCS it settled on.
	maxprocsLogger := func(format string, v ...any) {
		attrs := make([]slog.Attr, 0, 1)
		if val, ok := utils.Optional(v); ok {
			if _, exists := os.LookupEnv("GOMAXPROCS"); exists {
				val = Current()
			}
			if set, ok := val.(int); ok {
				attrs = append(attrs, slogx.Int("set_maxprocs", set))
			}
		}
		log.LogAttrs(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	revert, err := maxprocs.Set(maxprocs.Logger(maxprocsLogger), maxprocs.Min(1))
	if err != nil {
		return errors.WithStack(err)
	}
	undo = revert
	return nil
}

// Undo restores GOMAXPROCS to the value it had before Init, returning the
// resulting value.
func Undo() int {
	if undo != nil {
		undo()
		return Current()
	}
	runtime.GOMAXPROCS(initialMaxProcs)
	return initialMaxProcs
}

// Current returns the current GOMAXPROCS value.
func Current() int {
	return runtime.GOMAXPROCS(0)
}
