package logging

import (
	"log/slog"
	"strings"

	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

// LogWarnings logs data-quality diagnostics at WARN level, one record per kind
// with its count and a few example subjects.
func LogWarnings(logger *slog.Logger, operation string, ws []warnings.Warning) {
	if logger == nil || len(ws) == 0 {
		return
	}

	agg := warnings.NewAggregator()
	agg.Add(ws...)
	for _, s := range agg.Summaries() {
		logger.Warn("data_quality_warning",
			slog.String("operation", operation),
			slog.String("kind", string(s.Kind)),
			slog.Int("count", s.Count),
			slog.String("examples", strings.Join(s.Examples, ", ")),
			slog.String("first", s.First.Error()))
	}
}
