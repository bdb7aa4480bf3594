package meadow

import "time"

// Timer measures one named span and reports it through a Logger.
type Timer struct {
	name  string
	start time.Time
	log   Logger
}

func StartTimer(log Logger, name string) *Timer {
	return &Timer{name: name, start: time.Now(), log: log}
}

func (t *Timer) Done() {
	t.log.Debugf("%s took %.3fms", t.name, float64(time.Since(t.start).Microseconds())/1000.0)
}
