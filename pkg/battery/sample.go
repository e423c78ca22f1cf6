package battery

import (
	"math"
	"time"

	"battlog/pkg/utils/ptr"
)

// Android BatteryManager status codes, as reported by dumpsys.
const (
	StatusUnknown     = 1
	StatusCharging    = 2
	StatusDischarging = 3
	StatusNotCharging = 4
	StatusFull        = 5
)

// Sample is one point-in-time battery reading. Fields are pointers
// because the device is free to omit any of them.
type Sample struct {
	Time         time.Time
	Level        *int
	VoltageMV    *float64
	CurrentMA    *float64
	CurrentAvgMA *float64
	TemperatureC *float64
	Status       *string

	// PowerW is derived from VoltageMV and CurrentMA; nil when either
	// raw reading is missing.
	PowerW *float64
}

// Deltas holds per-field differences against the previous sample. A
// delta is nil when either side is missing, including on the first
// sample of a run.
type Deltas struct {
	CurrentMA    *float64
	CurrentAvgMA *float64
	VoltageMV    *float64
	PowerW       *float64
}

// DeltasFrom computes differences against prev. prev may be nil.
func (s Sample) DeltasFrom(prev *Sample) Deltas {
	if prev == nil {
		return Deltas{}
	}
	return Deltas{
		CurrentMA:    diff(s.CurrentMA, prev.CurrentMA),
		CurrentAvgMA: diff(s.CurrentAvgMA, prev.CurrentAvgMA),
		VoltageMV:    diff(s.VoltageMV, prev.VoltageMV),
		PowerW:       diff(s.PowerW, prev.PowerW),
	}
}

func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return ptr.To(*a - *b)
}

// derivePower returns watts from a millivolt and a milliamp reading.
// Discharge current is reported negative; power is always positive.
func derivePower(voltageMV, currentMA *float64) *float64 {
	if voltageMV == nil || currentMA == nil {
		return nil
	}
	return ptr.To((*voltageMV / 1000) * (math.Abs(*currentMA) / 1000))
}

func statusString(code int) string {
	switch code {
	case StatusCharging:
		return "charging"
	case StatusDischarging:
		return "discharging"
	case StatusNotCharging:
		return "not-charging"
	case StatusFull:
		return "full"
	default:
		return "unknown"
	}
}
