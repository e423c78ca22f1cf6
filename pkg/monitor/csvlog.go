package monitor

import (
	"encoding/csv"
	"os"

	pkgerrors "github.com/pkg/errors"

	"battlog/pkg/battery"
)

// CSVLog appends battery samples to a CSV file. The header row is
// written only when the file is new or empty, so repeated runs keep
// appending to the same schema.
type CSVLog struct {
	f *os.File
	w *csv.Writer
}

func OpenCSVLog(path string) (*CSVLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open log file %s", path)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, pkgerrors.Wrapf(err, "failed to stat log file %s", path)
	}

	l := &CSVLog{f: f, w: csv.NewWriter(f)}

	if st.Size() == 0 {
		if err := l.w.Write(battery.Header); err != nil {
			_ = f.Close()
			return nil, pkgerrors.Wrapf(err, "failed to write header to %s", path)
		}
		l.w.Flush()
		if err := l.w.Error(); err != nil {
			_ = f.Close()
			return nil, pkgerrors.Wrapf(err, "failed to write header to %s", path)
		}
	}

	return l, nil
}

// Append writes one sample row and flushes it, so a killed process
// loses at most the tick in flight.
func (l *CSVLog) Append(s battery.Sample) error {
	if err := l.w.Write(s.Record()); err != nil {
		return pkgerrors.Wrap(err, "failed to append sample row")
	}
	l.w.Flush()

	return pkgerrors.Wrap(l.w.Error(), "failed to append sample row")
}

func (l *CSVLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		_ = l.f.Close()
		return pkgerrors.Wrap(err, "failed to flush log")
	}

	return pkgerrors.Wrap(l.f.Close(), "failed to close log")
}
