package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/satman/internal/record"
	"github.com/roach88/satman/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "sat_data.json"), store.WithLogger(quietLogger()))
	require.NoError(t, err)
	return st
}

func TestRun_ExitChoice(t *testing.T) {
	out := &bytes.Buffer{}
	sh := New(openStore(t), strings.NewReader("9\n"), out, WithLogger(quietLogger()))

	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "Welcome to SAT Results Manager!")
	assert.Contains(t, out.String(), "Default max score is 1600.")
	assert.Contains(t, out.String(), "Current stats: 0 candidates, max score: 1600")
	assert.Contains(t, out.String(), "Thank you for using SAT Results Manager. Goodbye!")
}

func TestRun_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &bytes.Buffer{}
	sh := New(openStore(t), pr, out, WithLogger(quietLogger()))
	require.NoError(t, sh.Run(ctx))
	assert.Contains(t, out.String(), "Program interrupted. Goodbye!")
}

func TestRun_OverlongLineReprompts(t *testing.T) {
	st := openStore(t)
	longName := strings.Repeat("x", 200_000)
	input := strings.Join([]string{"1", longName, "alice", "", "", "", "411001", "1200", "9"}, "\n") + "\n"

	out := &bytes.Buffer{}
	sh := New(st, strings.NewReader(input), out, WithLogger(quietLogger()))
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, out.String(), "Invalid input: name too long (max 100 characters).")
	assert.Contains(t, out.String(), "Successfully added alice")
	assert.True(t, st.Has("alice"))
	assert.Equal(t, 1, st.Len())
}

func TestRun_LoadWarningShown(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(dir, store.WithLogger(quietLogger()))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	sh := New(st, strings.NewReader("9\n"), out, WithLogger(quietLogger()))
	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "Warning: Could not load data file")
	assert.Contains(t, out.String(), "Starting with fresh data.")
}

func TestSessionID(t *testing.T) {
	sh := New(openStore(t), strings.NewReader(""), io.Discard, WithSessionID("fixed"))
	assert.Equal(t, "fixed", sh.SessionID())

	sh = New(openStore(t), strings.NewReader(""), io.Discard)
	id, err := uuid.Parse(sh.SessionID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestRun_LogsCarrySessionID(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sh := New(openStore(t), strings.NewReader("42\n9\n"), io.Discard,
		WithLogger(logger), WithSessionID("sess-1"))
	require.NoError(t, sh.Run(context.Background()))

	assert.Contains(t, logs.String(), "session=sess-1")
	assert.Contains(t, logs.String(), "choice=42")
	assert.Contains(t, logs.String(), "reason=exit")
}

func goldenRecords() *record.Document {
	doc := record.NewDocument(record.DefaultMaxScore)
	doc.Records["alice"] = record.Record{
		Name: "alice", Address: "12 Main St", City: "Pune", Country: "India",
		Pincode: "411001", SATScore: 1250.5, Passed: true,
	}
	doc.Records["bob"] = record.Record{
		Name: "bob", Pincode: "123", SATScore: 300, Passed: false,
	}
	return doc
}

func TestFormatView_Golden(t *testing.T) {
	data, err := formatView(goldenRecords())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "view", data)
}

func TestFormatRecords_Golden(t *testing.T) {
	data, err := formatRecords(goldenRecords().Sorted()[1:])
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "filter_failed", data)
}
