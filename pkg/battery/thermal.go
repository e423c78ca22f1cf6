package battery

import (
	"regexp"
	"strconv"
	"strings"
)

var thermalRe = regexp.MustCompile(`mValue=([\d.]+),.*?mName=([^,}]+)`)

// ParseThermal extracts sensor name/value pairs from `dumpsys
// thermalservice` output. Only the cached and current-from-HAL
// temperature sections are scanned; a non-Temperature line ends the
// section.
func ParseThermal(out string) map[string]float64 {
	sensors := map[string]float64{}

	inSection := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		if line == "Cached temperatures:" || line == "Current temperatures from HAL:" {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if !strings.HasPrefix(line, "Temperature{") {
			if line != "" {
				inSection = false
			}
			continue
		}

		m := thermalRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		sensors[strings.TrimSpace(m[2])] = v
	}

	return sensors
}
