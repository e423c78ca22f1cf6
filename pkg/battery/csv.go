package battery

import (
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"battlog/pkg/utils/ptr"
)

// Header is the fixed battery_data.csv schema. Log files are appended
// to across runs, so this never changes shape; display-only columns
// (deltas, thermal sensors) are not part of it.
var Header = []string{"timestamp", "level", "voltage_mv", "current_ma", "temperature_c", "power_w", "status"}

const timeLayout = "2006-01-02 15:04:05.000"

// Record renders the sample as one CSV row matching Header. Missing
// fields become empty cells. Raw readings keep full precision; the
// derived power is fixed to two decimals.
func (s Sample) Record() []string {
	return []string{
		s.Time.Format(timeLayout),
		formatInt(s.Level),
		formatFloat(s.VoltageMV),
		formatFloat(s.CurrentMA),
		formatFloat(s.TemperatureC),
		formatFixed(s.PowerW),
		formatString(s.Status),
	}
}

// FromRecord parses a CSV row written by Record. Empty cells parse back
// to nil fields.
func FromRecord(rec []string) (Sample, error) {
	if len(rec) != len(Header) {
		return Sample{}, pkgerrors.Errorf("expected %d fields, got %d", len(Header), len(rec))
	}

	t, err := time.ParseInLocation(timeLayout, rec[0], time.Local)
	if err != nil {
		return Sample{}, pkgerrors.Wrapf(err, "bad timestamp %q", rec[0])
	}

	s := Sample{Time: t}
	if s.Level, err = parseInt(rec[1]); err != nil {
		return Sample{}, pkgerrors.Wrap(err, "bad level")
	}
	if s.VoltageMV, err = parseFloat(rec[2]); err != nil {
		return Sample{}, pkgerrors.Wrap(err, "bad voltage")
	}
	if s.CurrentMA, err = parseFloat(rec[3]); err != nil {
		return Sample{}, pkgerrors.Wrap(err, "bad current")
	}
	if s.TemperatureC, err = parseFloat(rec[4]); err != nil {
		return Sample{}, pkgerrors.Wrap(err, "bad temperature")
	}
	if s.PowerW, err = parseFloat(rec[5]); err != nil {
		return Sample{}, pkgerrors.Wrap(err, "bad power")
	}
	if rec[6] != "" {
		s.Status = ptr.To(rec[6])
	}

	return s, nil
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatFixed(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func parseInt(cell string) (*int, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		return nil, err
	}
	return ptr.To(v), nil
}

func parseFloat(cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	return ptr.To(v), nil
}
