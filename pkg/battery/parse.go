package battery

import (
	"strconv"
	"strings"

	"battlog/pkg/utils/ptr"
)

// ParseDump scans `dumpsys battery` output into a Sample. The scan is
// tolerant: lines that do not look like "key: value" are skipped, and a
// malformed value leaves its field nil instead of failing the whole
// sample. The caller stamps Time.
//
// Units follow what Android reports: voltage in mV, temperature in
// tenths of a degree Celsius, currents in µA.
func ParseDump(out string) Sample {
	s := Sample{}

	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "level":
			if v, err := strconv.Atoi(value); err == nil {
				s.Level = ptr.To(v)
			}
		case "voltage":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				s.VoltageMV = ptr.To(v)
			}
		case "current now":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				s.CurrentMA = ptr.To(v / 1000)
			}
		case "current average":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				s.CurrentAvgMA = ptr.To(v / 1000)
			}
		case "temperature":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				s.TemperatureC = ptr.To(v / 10)
			}
		case "status":
			if v, err := strconv.Atoi(value); err == nil {
				s.Status = ptr.To(statusString(v))
			} else if value != "" {
				// Some builds print the status as text already.
				s.Status = ptr.To(strings.ToLower(value))
			}
		}
	}

	s.PowerW = derivePower(s.VoltageMV, s.CurrentMA)

	return s
}
