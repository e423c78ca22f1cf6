package monitor

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"battlog/pkg/battery"
	"battlog/pkg/utils/ptr"
)

func testLogSample(minute int) battery.Sample {
	s := battery.Sample{
		Time:      time.Date(2024, 5, 17, 10, minute, 0, 0, time.Local),
		Level:     ptr.To(80),
		VoltageMV: ptr.To(4000.0),
		CurrentMA: ptr.To(-500.0),
		PowerW:    ptr.To(2.0),
		Status:    ptr.To("discharging"),
	}
	return s
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")

	// First run: header plus one row.
	l, err := OpenCSVLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(testLogSample(0)))
	require.NoError(t, l.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	require.Equal(t, battery.Header, rows[0])

	// Second run appends without rewriting the header.
	l, err = OpenCSVLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(testLogSample(1)))
	require.NoError(t, l.Close())

	rows = readRows(t, path)
	require.Len(t, rows, 3)
	require.Equal(t, battery.Header, rows[0])
	require.NotEqual(t, battery.Header, rows[1])
}

func TestCSVLogEmptyExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	l, err := OpenCSVLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 1, "an empty pre-existing file still gets the header")
	require.Equal(t, battery.Header, rows[0])
}

func TestCSVLogRowsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery_data.csv")

	want := testLogSample(0)
	l, err := OpenCSVLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(want))
	require.NoError(t, l.Close())

	rows := readRows(t, path)
	got, err := battery.FromRecord(rows[1])
	require.NoError(t, err)
	require.True(t, got.Time.Equal(want.Time))
	require.Equal(t, want.Level, got.Level)
	require.Equal(t, want.VoltageMV, got.VoltageMV)
	require.Equal(t, want.CurrentMA, got.CurrentMA)
	require.Equal(t, want.Status, got.Status)
	require.InDelta(t, *want.PowerW, *got.PowerW, 0.005)
}
