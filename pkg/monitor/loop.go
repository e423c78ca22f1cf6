// Package monitor drives the battery polling loop: sample, print,
// optionally log, sleep, repeat until interrupted.
package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"battlog/pkg/battery"
)

// Sampler produces one battery reading per call.
type Sampler interface {
	Sample(ctx context.Context) (battery.Sample, error)
}

// ThermalSampler is implemented by samplers that can also read the
// device thermal sensors.
type ThermalSampler interface {
	Thermal(ctx context.Context) (map[string]float64, error)
}

type Monitor struct {
	Sampler  Sampler
	Interval time.Duration

	// Log receives one row per sample; nil disables CSV logging.
	Log *CSVLog

	// ShowDeltas adds per-column differences against the previous
	// sample to the printed row.
	ShowDeltas bool

	// Thermal adds device thermal sensor columns to the printed row.
	Thermal bool

	// Out defaults to stdout.
	Out io.Writer

	prev          *battery.Sample
	headerPrinted bool
	sensorOrder   []string
}

const timeLayout = "2006-01-02 15:04:05.000"

// Run polls until ctx is cancelled. The first sample is taken
// immediately. A failed tick logs a warning and the loop keeps going;
// only cancellation stops it.
func (m *Monitor) Run(ctx context.Context) error {
	if m.Out == nil {
		m.Out = os.Stdout
	}

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		m.tick(ctx)

		select {
		case <-ctx.Done():
			logrus.Info("stopping battery monitor")
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	s, err := m.Sampler.Sample(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logrus.Warnf("failed to read battery state, skipping this tick: %v", err)
		return
	}

	var sensors map[string]float64
	if m.Thermal {
		if ts, ok := m.Sampler.(ThermalSampler); ok {
			sensors, err = ts.Thermal(ctx)
			if err != nil {
				logrus.Warnf("failed to read thermal sensors: %v", err)
			}
		}
	}

	m.printRow(s, sensors)

	if m.Log != nil {
		if err := m.Log.Append(s); err != nil {
			logrus.Warnf("failed to log sample: %v", err)
		}
	}

	m.prev = &s
}

func (m *Monitor) printRow(s battery.Sample, sensors map[string]float64) {
	if !m.headerPrinted {
		// Sensor columns are discovered from the first successful
		// sample and keep that order for the rest of the run.
		m.sensorOrder = sortedNames(sensors)
		m.printHeader()
		m.headerPrinted = true
	}

	cols := []string{
		fmt.Sprintf("%-23s", s.Time.Format(timeLayout)),
		fmt.Sprintf("%9s", intCell(s.Level)),
		fmt.Sprintf("%12s", floatCell(s.VoltageMV)),
		fmt.Sprintf("%12s", floatCell(s.CurrentMA)),
	}

	if m.ShowDeltas {
		d := s.DeltasFrom(m.prev)
		cols = append(cols,
			fmt.Sprintf("%13s", deltaCell(d.CurrentMA)),
			fmt.Sprintf("%12s", deltaCell(d.VoltageMV)),
		)
	}

	cols = append(cols,
		fmt.Sprintf("%16s", floatCell(s.CurrentAvgMA)),
		fmt.Sprintf("%10s", floatCell(s.TemperatureC)),
		fmt.Sprintf("%9s", floatCell(s.PowerW)),
		fmt.Sprintf("%-12s", stringCell(s.Status)),
	)

	for _, name := range m.sensorOrder {
		if v, ok := sensors[name]; ok {
			cols = append(cols, fmt.Sprintf("%14.2f", v))
		} else {
			cols = append(cols, fmt.Sprintf("%14s", "n/a"))
		}
	}

	fmt.Fprintln(m.Out, strings.Join(cols, " | "))
}

func (m *Monitor) printHeader() {
	cols := []string{
		fmt.Sprintf("%-23s", "Timestamp"),
		fmt.Sprintf("%9s", "Level (%)"),
		fmt.Sprintf("%12s", "Voltage (mV)"),
		fmt.Sprintf("%12s", "Current (mA)"),
	}

	if m.ShowDeltas {
		cols = append(cols,
			fmt.Sprintf("%13s", "dCurrent (mA)"),
			fmt.Sprintf("%12s", "dVolt (mV)"),
		)
	}

	cols = append(cols,
		fmt.Sprintf("%16s", "Avg current (mA)"),
		fmt.Sprintf("%10s", "Temp (C)"),
		fmt.Sprintf("%9s", "Power (W)"),
		fmt.Sprintf("%-12s", "Status"),
	)

	for _, name := range m.sensorOrder {
		cols = append(cols, fmt.Sprintf("%14s", name))
	}

	header := strings.Join(cols, " | ")
	fmt.Fprintln(m.Out, color.New(color.Bold).Sprint(header))
	fmt.Fprintln(m.Out, strings.Repeat("-", len(header)))
}

func sortedNames(sensors map[string]float64) []string {
	names := make([]string, 0, len(sensors))
	for name := range sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Missing fields are printed as an explicit marker instead of failing
// the row.
const missingCell = "unknown"

func intCell(v *int) string {
	if v == nil {
		return missingCell
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return missingCell
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func stringCell(v *string) string {
	if v == nil {
		return missingCell
	}
	return *v
}

func deltaCell(v *float64) string {
	if v == nil {
		return "initial"
	}
	return fmt.Sprintf("%+.2f", *v)
}
