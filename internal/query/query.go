package query

import (
	"errors"
	"sort"
	"strings"

	"github.com/roach88/satman/internal/record"
)

// ErrNoRecords is returned when a query needs at least one record.
var ErrNoRecords = errors.New("no records")

// ErrUnknownCandidate is returned when a named candidate is not in the set.
var ErrUnknownCandidate = errors.New("candidate not found")

// RankResult is the standing of one candidate among all records.
type RankResult struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
	Total      int     `json:"total"`
	Percentile float64 `json:"percentile"`
	SameScore  int     `json:"same_score"` // candidates with this exact score, including this one
	Passed     bool    `json:"passed"`
}

// Rank returns 1 + the number of records with a strictly greater score.
// Equal scores share a rank.
func Rank(records map[string]record.Record, name string) (RankResult, error) {
	if len(records) == 0 {
		return RankResult{}, ErrNoRecords
	}
	me, ok := records[name]
	if !ok {
		return RankResult{}, ErrUnknownCandidate
	}

	higher, same := 0, 0
	for _, r := range records {
		switch {
		case r.SATScore > me.SATScore:
			higher++
		case r.SATScore == me.SATScore:
			same++
		}
	}

	total := len(records)
	rank := higher + 1
	return RankResult{
		Name:       me.Name,
		Score:      me.SATScore,
		Rank:       rank,
		Total:      total,
		Percentile: float64(total-rank+1) / float64(total) * 100,
		SameScore:  same,
		Passed:     me.Passed,
	}, nil
}

// Stats summarizes the scores of a record set.
type Stats struct {
	Count       int      `json:"count"`
	PassedCount int      `json:"passed_count"`
	FailedCount int      `json:"failed_count"`
	Mean        float64  `json:"mean"`
	MeanPercent float64  `json:"mean_percent"` // Mean as percent of max score
	PassedMean  *float64 `json:"passed_mean,omitempty"`
	FailedMean  *float64 `json:"failed_mean,omitempty"`
	PassRate    float64  `json:"pass_rate"`
	Threshold   float64  `json:"threshold"`
	MaxScore    float64  `json:"max_score"`
}

// Average computes the overall mean and the means of the passed and failed
// subsets. A subset mean is nil when the subset is empty.
func Average(records map[string]record.Record, maxScore float64) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, ErrNoRecords
	}

	var sum, passedSum, failedSum float64
	var passed, failed int
	for _, r := range records {
		sum += r.SATScore
		if r.Passed {
			passedSum += r.SATScore
			passed++
		} else {
			failedSum += r.SATScore
			failed++
		}
	}

	n := len(records)
	st := Stats{
		Count:       n,
		PassedCount: passed,
		FailedCount: failed,
		Mean:        sum / float64(n),
		PassRate:    float64(passed) / float64(n) * 100,
		Threshold:   record.Threshold(maxScore),
		MaxScore:    maxScore,
	}
	st.MeanPercent = st.Mean / maxScore * 100
	if passed > 0 {
		m := passedSum / float64(passed)
		st.PassedMean = &m
	}
	if failed > 0 {
		m := failedSum / float64(failed)
		st.FailedMean = &m
	}
	return st, nil
}

// Filter returns the records whose Passed flag equals passed, sorted by name.
func Filter(records map[string]record.Record, passed bool) []record.Record {
	out := make([]record.Record, 0)
	for _, r := range records {
		if r.Passed == passed {
			out = append(out, r)
		}
	}
	record.SortByName(out)
	return out
}

// Recompute reapplies the pass rule to every record for maxScore and returns
// how many records changed status.
func Recompute(records map[string]record.Record, maxScore float64) int {
	flipped := 0
	for k, r := range records {
		p := record.IsPassing(r.SATScore, maxScore)
		if p != r.Passed {
			r.Passed = p
			records[k] = r
			flipped++
		}
	}
	return flipped
}

// DefaultSuggestLimit caps the number of suggested names.
const DefaultSuggestLimit = 3

// Suggest returns names that contain q or are contained in q, ignoring case.
// Results are sorted and at most limit long (limit <= 0 means no cap).
func Suggest(names []string, q string, limit int) []string {
	lq := strings.ToLower(strings.TrimSpace(q))
	if lq == "" {
		return nil
	}
	var out []string
	for _, n := range names {
		ln := strings.ToLower(n)
		if strings.Contains(ln, lq) || strings.Contains(lq, ln) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
