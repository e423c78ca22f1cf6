package monitor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"

	"battlog/pkg/battery"
	"battlog/pkg/utils/ptr"
)

// scriptedSampler returns one scripted result per call and cancels the
// loop once the script is exhausted.
type scriptedSampler struct {
	script []func() (battery.Sample, error)
	calls  int
	cancel context.CancelFunc
}

func (s *scriptedSampler) Sample(_ context.Context) (battery.Sample, error) {
	if s.calls >= len(s.script) {
		s.cancel()
		return battery.Sample{}, pkgerrors.New("script exhausted")
	}
	step := s.script[s.calls]
	s.calls++
	if s.calls == len(s.script) {
		defer s.cancel()
	}
	return step()
}

func goodSample() (battery.Sample, error) {
	return battery.Sample{
		Time:      time.Date(2024, 5, 17, 10, 30, 0, 0, time.Local),
		Level:     ptr.To(80),
		VoltageMV: ptr.To(4000.0),
		CurrentMA: ptr.To(-500.0),
		PowerW:    ptr.To(2.0),
		Status:    ptr.To("discharging"),
	}, nil
}

func badSample() (battery.Sample, error) {
	return battery.Sample{}, pkgerrors.New("device went away")
}

func runScripted(t *testing.T, m *Monitor, script ...func() (battery.Sample, error)) *bytes.Buffer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &scriptedSampler{script: script, cancel: cancel}
	out := &bytes.Buffer{}
	m.Sampler = s
	m.Interval = time.Millisecond
	m.Out = out

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if s.calls != len(script) {
		t.Fatalf("sampler called %d times, want %d", s.calls, len(script))
	}

	return out
}

func TestRunContinuesAfterReadFailure(t *testing.T) {
	// A failing tick must not terminate the loop: the two good samples
	// around it still get printed.
	out := runScripted(t, &Monitor{}, goodSample, badSample, goodSample)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	// header + separator + two sample rows
	if len(lines) != 4 {
		t.Fatalf("got %d output lines, want 4:\n%s", len(lines), out.String())
	}
}

func TestRunPrintsMissingFieldsAsUnknown(t *testing.T) {
	out := runScripted(t, &Monitor{}, func() (battery.Sample, error) {
		return battery.Sample{Time: time.Now(), Level: ptr.To(50)}, nil
	})

	if !strings.Contains(out.String(), "unknown") {
		t.Errorf("missing fields should be rendered as unknown:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "50") {
		t.Errorf("present fields should still be rendered:\n%s", out.String())
	}
}

func TestRunDeltaColumns(t *testing.T) {
	out := runScripted(t, &Monitor{ShowDeltas: true}, goodSample, func() (battery.Sample, error) {
		s, _ := goodSample()
		s.CurrentMA = ptr.To(-600.0)
		return s, nil
	})

	text := out.String()
	if !strings.Contains(text, "initial") {
		t.Errorf("first row should mark deltas as initial:\n%s", text)
	}
	if !strings.Contains(text, "-100.00") {
		t.Errorf("second row should carry the current delta:\n%s", text)
	}
}

func TestRunHeaderPrintedOnce(t *testing.T) {
	out := runScripted(t, &Monitor{}, goodSample, goodSample, goodSample)

	if got := strings.Count(out.String(), "Timestamp"); got != 1 {
		t.Errorf("header printed %d times, want 1:\n%s", got, out.String())
	}
}
