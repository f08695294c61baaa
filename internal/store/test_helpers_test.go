package store

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/satman/internal/record"
)

// errDiskFull is returned by failingWriter.
var errDiskFull = errors.New("disk full")

// discardLogger keeps test output quiet.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestStore opens a store on a fresh path in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sat_data.json")
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	s, err := Open(path, opts...)
	require.NoError(t, err)
	return s
}

// failingWriter lets the first n writes through, then fails every write.
type failingWriter struct {
	allow int
	calls int
}

func (w *failingWriter) Write(path string, data []byte) error {
	w.calls++
	if w.calls > w.allow {
		return errDiskFull
	}
	return writeFileAtomic(path, data)
}

// testRecord builds a valid record with the given name and score.
func testRecord(name string, score float64) record.Record {
	return record.Record{
		Name:     name,
		Address:  "1 Test Road",
		City:     "Pune",
		Country:  "India",
		Pincode:  "411001",
		SATScore: score,
	}
}
