// Package audit records mutating actions to the append-only log.
package audit

import (
	"context"
	"log/slog"

	"github.com/okanele/peoplebook/internal/models"
	"github.com/okanele/peoplebook/internal/storage"
)

// Recorder appends audit entries for person mutations.
//
// Recording is best-effort and failure-tolerant: a failed append is reported
// to the operational log and swallowed, so a mutation never fails or rolls
// back because its audit entry could not be written. The audit log is
// therefore advisory, not an authoritative record of all mutations.
type Recorder struct {
	logs   storage.Logs
	logger *slog.Logger
}

// NewRecorder creates a Recorder writing through the given log storage.
func NewRecorder(logs storage.Logs, logger *slog.Logger) *Recorder {
	return &Recorder{logs: logs, logger: logger}
}

// Record appends one entry. It never returns an error.
func (r *Recorder) Record(ctx context.Context, action, details, username string) {
	entry := &models.LogEntry{
		Action:   action,
		Details:  details,
		Username: username,
	}
	if err := r.logs.AppendLog(ctx, entry); err != nil {
		r.logger.Warn("failed to record audit entry",
			"action", action,
			"details", details,
			"username", username,
			"error", err,
		)
	}
}
