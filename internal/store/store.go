package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/roach88/satman/internal/query"
	"github.com/roach88/satman/internal/record"
	"github.com/roach88/satman/internal/validate"
)

// Common store errors.
var (
	ErrNotFound      = errors.New("candidate not found")
	ErrAlreadyExists = errors.New("candidate already exists")
	ErrWriteFailed   = errors.New("write failed")
)

// WriteFunc persists the encoded document to path.
type WriteFunc func(path string, data []byte) error

// Store owns the record document and its backing JSON file.
// It is not safe for concurrent use; the process is its only user.
type Store struct {
	path        string
	doc         *record.Document
	defaultMax  float64
	logger      *slog.Logger
	write       WriteFunc
	loadWarning error
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultMaxScore sets the max score used for a fresh store.
func WithDefaultMaxScore(maxScore float64) Option {
	return func(s *Store) { s.defaultMax = maxScore }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithWriteFunc overrides how the document reaches disk (for testing).
// If nil, defaults to an atomic temp-file-and-rename write.
func WithWriteFunc(w WriteFunc) Option {
	return func(s *Store) { s.write = w }
}

// Open loads the store at path.
//
// A missing file gives an empty store. A file that cannot be read, parsed or
// validated also gives an empty store; the reason is available from
// LoadWarning. Open only fails on invalid arguments.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open store: empty path")
	}

	s := &Store{
		path:       path,
		defaultMax: record.DefaultMaxScore,
		logger:     slog.Default(),
		write:      writeFileAtomic,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.write == nil {
		s.write = writeFileAtomic
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if err := validate.MaxScoreValue(s.defaultMax); err != nil {
		return nil, fmt.Errorf("open store: default max score must be a positive number, got %v", s.defaultMax)
	}

	s.load()
	return s, nil
}

// load reads the backing file, falling back to a fresh document on any failure.
func (s *Store) load() {
	s.doc = record.NewDocument(s.defaultMax)

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no data file, starting empty", "path", s.path, "max_score", s.defaultMax)
		return
	}
	if err != nil {
		s.fallback(fmt.Errorf("read %s: %w", s.path, err))
		return
	}

	doc, err := decodeDocument(raw, s.defaultMax)
	if err != nil {
		s.fallback(err)
		return
	}
	if err := validateDocument(doc); err != nil {
		s.fallback(err)
		return
	}

	if repaired := query.Recompute(doc.Records, doc.MaxScore); repaired > 0 {
		s.logger.Warn("repaired pass flags on load", "path", s.path, "count", repaired)
	}

	s.doc = doc
	s.logger.Debug("store loaded", "path", s.path, "records", len(doc.Records), "max_score", doc.MaxScore)
}

func (s *Store) fallback(err error) {
	s.loadWarning = err
	s.logger.Warn("could not load data file, starting with fresh data", "path", s.path, "error", err)
}

// LoadWarning returns why the data file was discarded at load, or nil.
func (s *Store) LoadWarning() error {
	return s.loadWarning
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// DefaultMaxScore returns the max score a fresh store starts with.
func (s *Store) DefaultMaxScore() float64 {
	return s.defaultMax
}

// MaxScore returns the current max score.
func (s *Store) MaxScore() float64 {
	return s.doc.MaxScore
}

// HighestScore returns the highest recorded score, or 0 for an empty store.
func (s *Store) HighestScore() float64 {
	var highest float64
	for _, r := range s.doc.Records {
		if r.SATScore > highest {
			highest = r.SATScore
		}
	}
	return highest
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.doc.Records)
}

// Has reports whether a record with the (normalized) name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.doc.Records[record.NormalizeName(name)]
	return ok
}

// Get returns the record for name.
func (s *Store) Get(name string) (record.Record, bool) {
	r, ok := s.doc.Records[record.NormalizeName(name)]
	return r, ok
}

// Records returns all records sorted by name.
func (s *Store) Records() []record.Record {
	return s.doc.Sorted()
}

// Names returns all record names in sorted order.
func (s *Store) Names() []string {
	return s.doc.Names()
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *record.Document {
	return s.doc.Clone()
}
