package meadow

import (
	"fmt"
	"strings"
	"testing"
)

type recordLogger struct {
	nopLogger
	lines []string
}

func (r *recordLogger) Debugf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestTimerReportsNamedSpan(t *testing.T) {
	log := &recordLogger{}
	timer := StartTimer(log, "noise bake")
	timer.Done()

	if len(log.lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(log.lines))
	}
	if !strings.HasPrefix(log.lines[0], "noise bake took ") {
		t.Fatalf("unexpected report: %q", log.lines[0])
	}
}
