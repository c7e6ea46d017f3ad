package shift

import (
	"fmt"
	"time"
)

// ── 测试辅助 ──

var testDay = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	t, err := ParseWallClock(hhmm, testDay)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func activeEmp(id, start, position string) Employee {
	return Employee{
		ID:                  id,
		Name:                "Emp " + id,
		CurrentAssignmentID: position,
		ScheduledStart:      start,
		ScheduledEnd:        "17:00",
		ActualStart:         start,
		LunchStatus:         LunchNotStarted,
		BreakStatus:         BreakNotStarted,
		Status:              StatusActive,
	}
}

// fakeClock 可手动推进的时钟
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestState(clock *fakeClock) *State {
	n := 0
	return NewState(
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}
