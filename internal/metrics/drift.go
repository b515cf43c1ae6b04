package metrics

import "math"

// EnergyDrift tracks how far the ensemble's aggregate energy strays
// from its baseline over a run.
type EnergyDrift struct {
	name     string
	baseline float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(baseline float64) *EnergyDrift {
	return &EnergyDrift{
		name:     "energy_drift",
		baseline: baseline,
	}
}

func (d *EnergyDrift) Name() string {
	return d.name
}

func (d *EnergyDrift) Observe(total float64) {
	d.current = total
	d.samples++

	if d.baseline != 0 {
		drift := math.Abs(total-d.baseline) / math.Abs(d.baseline)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

// Value returns the maximum relative drift seen so far.
func (d *EnergyDrift) Value() float64 {
	return d.maxDrift
}

// Last returns the relative drift of the most recent observation.
func (d *EnergyDrift) Last() float64 {
	if d.baseline == 0 || d.samples == 0 {
		return 0
	}
	return math.Abs(d.current-d.baseline) / math.Abs(d.baseline)
}

func (d *EnergyDrift) Reset(baseline float64) {
	d.baseline = baseline
	d.current = 0
	d.maxDrift = 0
	d.samples = 0
}
