package metrics

import "time"

// StepRate measures simulation throughput in ticks per second of wall
// time, counted from the first observation.
type StepRate struct {
	name  string
	start time.Time
	steps int
}

func NewStepRate() *StepRate {
	return &StepRate{name: "step_rate"}
}

func (r *StepRate) Name() string {
	return r.name
}

func (r *StepRate) Observe() {
	if r.steps == 0 {
		r.start = time.Now()
	}
	r.steps++
}

func (r *StepRate) Value() float64 {
	if r.steps < 2 {
		return 0
	}
	elapsed := time.Since(r.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(r.steps-1) / elapsed
}

func (r *StepRate) Reset() {
	r.steps = 0
}
