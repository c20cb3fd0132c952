package logger

import (
	"fmt"
	"log/slog"

	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

// errorAttrReplacer expands error attributes with a verbose representation so
// wrapped causes and stack traces (cockroachdb/errors) survive into the output.
func errorAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) != 0 || attr.Key != slogx.ErrorKey {
		return attr
	}
	err, ok := attr.Value.Any().(error)
	if !ok || err == nil {
		return attr
	}
	return slog.Group(slogx.ErrorKey,
		slog.String("message", err.Error()),
		slog.String("verbose", fmt.Sprintf("%+v", err)),
	)
}
