package adb

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// fakeADB writes a shell script that prints the given output for
// "shell dumpsys battery" and exits with the given code otherwise 0.
func fakeADB(t *testing.T, output string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake adb script requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "adb")
	script := "#!/bin/sh\nprintf '%s\\n' '" + output + "'\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake adb: %v", err)
	}
	return path
}

func TestSample(t *testing.T) {
	c := New(fakeADB(t, "  level: 77\n  voltage: 4000\n  current now: -250000", 0))

	s, err := c.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample() unexpected error: %v", err)
	}
	if s.Level == nil || *s.Level != 77 {
		t.Errorf("Level = %v, want 77", s.Level)
	}
	if s.PowerW == nil {
		t.Error("PowerW = nil, want a derived value")
	}
	if s.Time.IsZero() {
		t.Error("Time was not stamped")
	}
}

func TestSampleNonZeroExit(t *testing.T) {
	c := New(fakeADB(t, "error: no devices/emulators found", 1))

	if _, err := c.Sample(context.Background()); err == nil {
		t.Fatal("Sample() expected an error on non-zero adb exit")
	}
}

func TestSampleMissingExecutable(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "adb-does-not-exist"))

	if _, err := c.Sample(context.Background()); err == nil {
		t.Fatal("Sample() expected an error when adb is missing")
	}
}

func TestRunEmptyOutput(t *testing.T) {
	c := New(fakeADB(t, "", 0))

	if _, err := c.run(context.Background(), "get-serialno"); err == nil {
		t.Fatal("run() expected an error on empty output")
	}
}
