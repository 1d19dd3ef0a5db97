package flatfile

import (
	"log/slog"
	"sync"

	"clinic-booking/internal/infra"
)

// ReportLog is the append-only verification report file. It carries its own
// lock, independent of the booking and payment locks: report writing must not
// block request handling.
type ReportLog struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewReportLog(path string, logger *slog.Logger) *ReportLog {
	return &ReportLog{path: path, logger: logger}
}

func (l *ReportLog) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := truncateFile(l.path); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "truncate report log", err)
	}
	return nil
}

func (l *ReportLog) Append(block string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := appendLine(l.path, block); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "append verification report", err)
	}
	return nil
}
