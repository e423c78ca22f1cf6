package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"battlog/pkg/platform"
	"battlog/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		IntervalSeconds: ptr.To(1.0),
		Log:             ptr.To(false),
		Output:          ptr.To("battery_data.csv"),
		Deltas:          ptr.To(false),
		Thermal:         ptr.To(false),
		// ADBPath is left nil here: the default depends on the platform
		// and is resolved in the getter.
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// RawFileConfig is the on-disk shape. Every field is optional so a
// config file only has to mention what it overrides.
type RawFileConfig struct {
	IntervalSeconds *float64 `json:"intervalSeconds,omitempty"`
	Log             *bool    `json:"log,omitempty"`
	Output          *string  `json:"output,omitempty"`
	Deltas          *bool    `json:"deltas,omitempty"`
	Thermal         *bool    `json:"thermal,omitempty"`
	ADBPath         *string  `json:"adbPath,omitempty"`
}

func (f *File) Interval() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var seconds float64

	if f.c.IntervalSeconds != nil {
		seconds = *f.c.IntervalSeconds
	} else {
		seconds = *defaultFileConfig.IntervalSeconds
	}

	return time.Duration(seconds * float64(time.Second))
}

func (f *File) LogEnabled() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var log bool

	if f.c.Log != nil {
		log = *f.c.Log
	} else {
		log = *defaultFileConfig.Log
	}

	return log
}

func (f *File) OutputPath() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var output string

	if f.c.Output != nil {
		output = *f.c.Output
	} else {
		output = *defaultFileConfig.Output
	}

	return output
}

func (f *File) ShowDeltas() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var deltas bool

	if f.c.Deltas != nil {
		deltas = *f.c.Deltas
	} else {
		deltas = *defaultFileConfig.Deltas
	}

	return deltas
}

func (f *File) ThermalSensors() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var thermal bool

	if f.c.Thermal != nil {
		thermal = *f.c.Thermal
	} else {
		thermal = *defaultFileConfig.Thermal
	}

	return thermal
}

func (f *File) ADBPath() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.ADBPath != nil {
		return *f.c.ADBPath
	}

	// The logger consumes the executable the installer placed next to
	// the working directory, so that is the default.
	if spec, err := platform.Current(); err == nil {
		return "./" + spec.ADBName()
	}

	return "./adb"
}

func (f *File) SetInterval(d time.Duration) {
	if f.c == nil {
		panic("config is nil")
	}

	if d <= 0 {
		panic("interval must be positive")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.IntervalSeconds = ptr.To(d.Seconds())
}

func (f *File) SetLogEnabled(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Log = &b
}

func (f *File) SetOutputPath(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Output = &s
}

func (f *File) SetShowDeltas(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Deltas = &b
}

func (f *File) SetThermalSensors(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Thermal = &b
}

func (f *File) SetADBPath(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ADBPath = &s
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"interval": f.Interval(),
		"log":      f.LogEnabled(),
		"output":   f.OutputPath(),
		"deltas":   f.ShowDeltas(),
		"thermal":  f.ThermalSensors(),
		"adbPath":  f.ADBPath(),
	}
}
