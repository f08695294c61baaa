package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/satman/internal/record"
)

// fileDocument mirrors record.Document with optional top-level keys so that
// missing keys can be told apart from zero values.
type fileDocument struct {
	MaxScore *float64                 `json:"max_score"`
	Records  map[string]record.Record `json:"records"`
}

// decodeDocument parses the data file. Missing max_score or records keys are
// filled with defaults. Record keys and names are normalized; a collision
// after normalization is an error.
func decodeDocument(raw []byte, defaultMax float64) (*record.Document, error) {
	var fd fileDocument
	if err := json.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}

	doc := record.NewDocument(defaultMax)
	if fd.MaxScore != nil {
		doc.MaxScore = *fd.MaxScore
	}
	for key, r := range fd.Records {
		k := record.NormalizeName(key)
		if _, dup := doc.Records[k]; dup {
			return nil, fmt.Errorf("parse data file: duplicate record %q after normalization", k)
		}
		if record.NormalizeName(r.Name) == k {
			r.Name = k
		}
		doc.Records[k] = r
	}
	return doc, nil
}

// EncodeDocument renders a document in the on-disk format: two-space
// indented JSON, sorted keys, no HTML escaping, trailing newline.
func EncodeDocument(doc *record.Document) ([]byte, error) {
	out := doc
	if out.Records == nil {
		out = &record.Document{MaxScore: doc.MaxScore, Records: map[string]record.Record{}}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
