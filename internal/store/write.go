package store

import (
	"fmt"

	"github.com/roach88/satman/internal/query"
	"github.com/roach88/satman/internal/record"
	"github.com/roach88/satman/internal/validate"
)

// ScoreChange describes a score update.
type ScoreChange struct {
	Old record.Record
	New record.Record
}

// MaxScoreChange describes a max score update.
type MaxScoreChange struct {
	Old     float64
	New     float64
	Flipped int // records whose pass status changed
}

// Insert adds a new record. The name is normalized, every field is validated
// against the current max score, and Passed is derived. Returns
// ErrAlreadyExists if the name is taken.
func (s *Store) Insert(r record.Record) (record.Record, error) {
	name := record.NormalizeName(r.Name)
	if _, ok := s.doc.Records[name]; ok {
		return record.Record{}, fmt.Errorf("insert %q: %w", name, ErrAlreadyExists)
	}

	r.Name = name
	if err := validate.Record(r, s.doc.MaxScore); err != nil {
		return record.Record{}, fmt.Errorf("insert %q: %w", name, err)
	}
	r.Passed = record.IsPassing(r.SATScore, s.doc.MaxScore)

	err := s.commit("insert", func(doc *record.Document) error {
		doc.Records[name] = r
		return nil
	})
	if err != nil {
		return record.Record{}, err
	}
	s.logger.Info("record inserted", "name", name, "score", r.SATScore, "passed", r.Passed)
	return r, nil
}

// UpdateScore sets a new score for an existing record and rederives Passed.
func (s *Store) UpdateScore(name string, score float64) (ScoreChange, error) {
	name = record.NormalizeName(name)
	old, ok := s.doc.Records[name]
	if !ok {
		return ScoreChange{}, fmt.Errorf("update %q: %w", name, ErrNotFound)
	}
	if err := validate.ScoreValue(score, s.doc.MaxScore); err != nil {
		return ScoreChange{}, fmt.Errorf("update %q: %w", name, err)
	}

	updated := old
	updated.SATScore = score
	updated.Passed = record.IsPassing(score, s.doc.MaxScore)

	err := s.commit("update", func(doc *record.Document) error {
		doc.Records[name] = updated
		return nil
	})
	if err != nil {
		return ScoreChange{}, err
	}
	s.logger.Info("score updated", "name", name, "old", old.SATScore, "new", score, "passed", updated.Passed)
	return ScoreChange{Old: old, New: updated}, nil
}

// Delete removes a record. Deleting a missing name returns ErrNotFound and
// does not touch the file.
func (s *Store) Delete(name string) (record.Record, error) {
	name = record.NormalizeName(name)
	old, ok := s.doc.Records[name]
	if !ok {
		return record.Record{}, fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}

	err := s.commit("delete", func(doc *record.Document) error {
		delete(doc.Records, name)
		return nil
	})
	if err != nil {
		return record.Record{}, err
	}
	s.logger.Info("record deleted", "name", name)
	return old, nil
}

// SetMaxScore changes the max score and recomputes every pass flag. The new
// flags become visible only if the write succeeds. A max below the highest
// recorded score is rejected.
func (s *Store) SetMaxScore(maxScore float64) (MaxScoreChange, error) {
	if err := validate.MaxScoreValue(maxScore); err != nil {
		return MaxScoreChange{}, fmt.Errorf("set max score: %w", err)
	}
	if err := validate.MaxScoreCovers(maxScore, s.HighestScore()); err != nil {
		return MaxScoreChange{}, fmt.Errorf("set max score: %w", err)
	}

	change := MaxScoreChange{Old: s.doc.MaxScore, New: maxScore}
	err := s.commit("set max score", func(doc *record.Document) error {
		doc.MaxScore = maxScore
		change.Flipped = query.Recompute(doc.Records, maxScore)
		return nil
	})
	if err != nil {
		return MaxScoreChange{}, err
	}
	s.logger.Info("max score updated", "old", change.Old, "new", change.New, "flipped", change.Flipped)
	return change, nil
}

// Save writes the current document to disk.
func (s *Store) Save() error {
	if err := s.persist(s.doc); err != nil {
		s.logger.Error("save failed", "path", s.path, "error", err)
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// commit applies mutate to a clone of the live document, writes the clone,
// and swaps it in only if the write succeeds.
func (s *Store) commit(op string, mutate func(doc *record.Document) error) error {
	next := s.doc.Clone()
	if err := mutate(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.persist(next); err != nil {
		s.logger.Error("write failed, change rolled back", "op", op, "path", s.path, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.doc = next
	return nil
}

func (s *Store) persist(doc *record.Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	if err := s.write(s.path, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}
	s.logger.Debug("data written", "path", s.path, "records", len(doc.Records), "bytes", len(data))
	return nil
}
