package config

import "time"

type Config interface {
	Interval() time.Duration
	LogEnabled() bool
	OutputPath() string
	ShowDeltas() bool
	ThermalSensors() bool
	ADBPath() string

	SetInterval(time.Duration)
	SetLogEnabled(bool)
	SetOutputPath(string)
	SetShowDeltas(bool)
	SetThermalSensors(bool)
	SetADBPath(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
