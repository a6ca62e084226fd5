package dungeon

import (
	"time"
)

const maxFixedStepsPerFrame = 5

// Time is the clock service. Dt is the frame delta; simulation systems integrate
// with FixedDt, run FixedSteps times in the current frame.
type Time struct {
	Time       time.Time
	Dt         time.Duration
	FixedDt    time.Duration
	FixedSteps int

	accumulator time.Duration
}

type TimeModule struct {
	FixedHz int
}

func NewTime(now time.Time, fixedHz int) *Time {
	if fixedHz <= 0 {
		fixedHz = 60
	}
	return &Time{
		Time:    now,
		FixedDt: time.Second / time.Duration(fixedHz),
	}
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewTime(time.Now(), mod.FixedHz))
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(t *Time) {
	t.Advance(time.Now())
}

// Advance moves the clock to now and computes how many fixed ticks are due.
// Backlog beyond maxFixedStepsPerFrame ticks is dropped so a stall cannot snowball.
func (t *Time) Advance(now time.Time) {
	t.Dt = now.Sub(t.Time)
	if t.Dt < 0 {
		t.Dt = 0
	}
	t.Time = now

	t.accumulator += t.Dt
	t.FixedSteps = 0
	for t.accumulator >= t.FixedDt && t.FixedSteps < maxFixedStepsPerFrame {
		t.accumulator -= t.FixedDt
		t.FixedSteps++
	}
	if t.FixedSteps == maxFixedStepsPerFrame && t.accumulator >= t.FixedDt {
		t.accumulator = 0
	}
}

func (t *Time) DeltaSeconds() float32 {
	return float32(t.Dt.Seconds())
}

func (t *Time) FixedDeltaSeconds() float32 {
	return float32(t.FixedDt.Seconds())
}
