package service

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// runLog is the user visible trail of one run, mirrored to the debug log.
type runLog struct {
	lines []string
	entry *log.Entry
}

func newRunLog(runID string) *runLog {
	return &runLog{
		lines: make([]string, 0, 32),
		entry: log.WithField("run_id", runID),
	}
}

func (l *runLog) add(msg string) {
	l.lines = append(l.lines, msg)
	l.entry.Debug(msg)
}

func (l *runLog) addf(format string, args ...any) {
	l.add(fmt.Sprintf(format, args...))
}
