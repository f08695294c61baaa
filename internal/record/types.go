package record

import "sort"

// DefaultMaxScore is the max score of a fresh store.
const DefaultMaxScore = 1600.0

// PassRatio is the fraction of the max score a candidate must exceed to pass.
const PassRatio = 0.3

// MaxNameLength is the maximum number of runes in a candidate name.
const MaxNameLength = 100

// MinPincodeDigits is the minimum number of digits in a pincode.
const MinPincodeDigits = 3

// Record is one candidate's persisted data.
type Record struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Pincode  string  `json:"pincode"`
	SATScore float64 `json:"sat_score"`
	Passed   bool    `json:"passed"`
}

// Document is the full persisted store: the max score and all records keyed by name.
type Document struct {
	MaxScore float64           `json:"max_score"`
	Records  map[string]Record `json:"records"`
}

// NewDocument returns an empty document with the given max score.
func NewDocument(maxScore float64) *Document {
	return &Document{
		MaxScore: maxScore,
		Records:  make(map[string]Record),
	}
}

// Threshold returns the score a candidate must exceed to pass.
func Threshold(maxScore float64) float64 {
	return PassRatio * maxScore
}

// IsPassing applies the pass rule.
func IsPassing(score, maxScore float64) bool {
	return score > Threshold(maxScore)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		MaxScore: d.MaxScore,
		Records:  make(map[string]Record, len(d.Records)),
	}
	for k, r := range d.Records {
		c.Records[k] = r
	}
	return c
}

// Sorted returns the records ordered by name.
func (d *Document) Sorted() []Record {
	out := make([]Record, 0, len(d.Records))
	for _, r := range d.Records {
		out = append(out, r)
	}
	SortByName(out)
	return out
}

// Names returns the record keys in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Records))
	for name := range d.Records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortByName sorts records in place by name (binary collation).
func SortByName(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
}

// StatusLabel returns "PASS" or "FAIL".
func StatusLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
