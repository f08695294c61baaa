package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/satman/internal/query"
	"github.com/roach88/satman/internal/record"
	"github.com/roach88/satman/internal/store"
	"github.com/roach88/satman/internal/validate"
)

func (sh *Shell) insert(ctx context.Context) error {
	sh.header("INSERT NEW CANDIDATE")

	var name string
	for {
		line, err := sh.prompt(ctx, "Name (unique identifier): ")
		if err != nil {
			return err
		}
		name, err = validate.Name(line, nil)
		if err != nil {
			sh.invalid(err)
			continue
		}
		break
	}
	if sh.store.Has(name) {
		sh.printf("Error: A record for '%s' already exists.\n", name)
		return nil
	}

	r := record.Record{Name: name}
	var err error
	if r.Address, err = sh.prompt(ctx, "Address: "); err != nil {
		return err
	}
	if r.City, err = sh.prompt(ctx, "City: "); err != nil {
		return err
	}
	if r.Country, err = sh.prompt(ctx, "Country: "); err != nil {
		return err
	}
	if r.Pincode, err = sh.promptPincode(ctx); err != nil {
		return err
	}
	if r.SATScore, err = sh.promptScore(ctx, "SAT score"); err != nil {
		return err
	}

	added, err := sh.store.Insert(r)
	if err != nil {
		if errors.Is(err, store.ErrWriteFailed) {
			sh.saveFailed("insert", err)
			sh.println("Record not added.")
			return nil
		}
		sh.printf("Error: %v\n", err)
		return nil
	}
	sh.saved()
	sh.printf("\nSuccessfully added %s (Score: %s, Status: %s)\n",
		added.Name, validate.FormatNumber(added.SATScore), record.StatusLabel(added.Passed))
	return nil
}

func (sh *Shell) promptPincode(ctx context.Context) (string, error) {
	for {
		line, err := sh.prompt(ctx, "Pincode: ")
		if err != nil {
			return "", err
		}
		p, err := validate.Pincode(line)
		if err != nil {
			sh.invalid(err)
			continue
		}
		return p, nil
	}
}

func (sh *Shell) promptScore(ctx context.Context, label string) (float64, error) {
	maxScore := sh.store.MaxScore()
	for {
		line, err := sh.prompt(ctx, fmt.Sprintf("%s (0-%s): ", label, validate.FormatNumber(maxScore)))
		if err != nil {
			return 0, err
		}
		score, err := validate.Score(line, maxScore)
		if err != nil {
			sh.invalid(err)
			continue
		}
		return score, nil
	}
}

// promptExisting asks for a candidate name and resolves it. ok is false
// (with a message already printed) when the name is unknown.
func (sh *Shell) promptExisting(ctx context.Context, msg string) (r record.Record, ok bool, err error) {
	line, err := sh.prompt(ctx, msg)
	if err != nil {
		return record.Record{}, false, err
	}
	r, ok = sh.store.Get(line)
	if !ok {
		sh.printf("Candidate '%s' not found.\n", record.NormalizeName(line))
		if similar := query.Suggest(sh.store.Names(), line, query.DefaultSuggestLimit); len(similar) > 0 {
			sh.printf("Did you mean: %s\n", strings.Join(similar, ", "))
		}
	}
	return r, ok, nil
}

func (sh *Shell) view() error {
	sh.header("ALL RECORDS (JSON FORMAT)")
	if sh.store.Len() == 0 {
		sh.println("No records available.")
		return nil
	}
	data, err := formatView(sh.store.Snapshot())
	if err != nil {
		return err
	}
	_, err = sh.out.Write(data)
	return err
}

func (sh *Shell) rank(ctx context.Context) error {
	sh.header("GET CANDIDATE RANK")
	if sh.store.Len() == 0 {
		sh.println("No records available for ranking.")
		return nil
	}
	r, ok, err := sh.promptExisting(ctx, "Enter candidate name: ")
	if err != nil || !ok {
		return err
	}

	res, err := query.Rank(sh.store.Snapshot().Records, r.Name)
	if err != nil {
		return err
	}
	sh.printf("\nRanking results for %s\n", strings.ToUpper(res.Name))
	sh.printf("   Score: %s\n", validate.FormatNumber(res.Score))
	sh.printf("   Rank: %d out of %d\n", res.Rank, res.Total)
	sh.printf("   Percentile: %.1f%%\n", res.Percentile)
	sh.printf("   Status: %s\n", record.StatusLabel(res.Passed))
	if res.SameScore > 1 {
		sh.printf("   Note: %d candidates have the same score\n", res.SameScore)
	}
	return nil
}

func (sh *Shell) update(ctx context.Context) error {
	sh.header("UPDATE CANDIDATE SCORE")
	if sh.store.Len() == 0 {
		sh.println("No records to update.")
		return nil
	}
	r, ok, err := sh.promptExisting(ctx, "Enter candidate name to update: ")
	if err != nil || !ok {
		return err
	}
	sh.printf("Current score for %s: %s\n", r.Name, validate.FormatNumber(r.SATScore))

	score, err := sh.promptScore(ctx, "New SAT score")
	if err != nil {
		return err
	}

	change, err := sh.store.UpdateScore(r.Name, score)
	if err != nil {
		if errors.Is(err, store.ErrWriteFailed) {
			sh.saveFailed("update", err)
			sh.println("Score not updated.")
			return nil
		}
		sh.printf("Error: %v\n", err)
		return nil
	}
	sh.saved()
	sh.printf("\nScore updated for %s:\n", r.Name)
	sh.printf("   Old: %s (%s)\n", validate.FormatNumber(change.Old.SATScore), record.StatusLabel(change.Old.Passed))
	sh.printf("   New: %s (%s)\n", validate.FormatNumber(change.New.SATScore), record.StatusLabel(change.New.Passed))
	return nil
}

func (sh *Shell) delete(ctx context.Context) error {
	sh.header("DELETE CANDIDATE RECORD")
	if sh.store.Len() == 0 {
		sh.println("No records to delete.")
		return nil
	}
	r, ok, err := sh.promptExisting(ctx, "Enter candidate name to delete: ")
	if err != nil || !ok {
		return err
	}

	sh.println("\nRecord to delete:")
	sh.printf("   Name: %s\n", r.Name)
	sh.printf("   Score: %s\n", validate.FormatNumber(r.SATScore))
	sh.printf("   Status: %s\n", record.StatusLabel(r.Passed))

	want := "DELETE " + r.Name
	confirm, err := sh.prompt(ctx, fmt.Sprintf("\nType '%s' to confirm deletion: ", want))
	if err != nil {
		return err
	}
	if confirm != want {
		sh.println("Deletion cancelled. Exact confirmation required.")
		return nil
	}

	if _, err := sh.store.Delete(r.Name); err != nil {
		if errors.Is(err, store.ErrWriteFailed) {
			sh.saveFailed("delete", err)
			sh.println("Record not deleted.")
			return nil
		}
		sh.printf("Error: %v\n", err)
		return nil
	}
	sh.saved()
	sh.printf("Record for '%s' has been deleted.\n", r.Name)
	return nil
}

func (sh *Shell) average() error {
	sh.header("AVERAGE SAT SCORE ANALYSIS")
	if sh.store.Len() == 0 {
		sh.println("No records available for calculation.")
		return nil
	}
	st, err := query.Average(sh.store.Snapshot().Records, sh.store.MaxScore())
	if err != nil {
		return err
	}
	sh.printf("Statistics (%d candidates)\n", st.Count)
	sh.printf("   Overall average: %.2f / %s (%.1f%%)\n", st.Mean, validate.FormatNumber(st.MaxScore), st.MeanPercent)
	sh.printf("   Pass rate: %.1f%% (%d passed, %d failed)\n", st.PassRate, st.PassedCount, st.FailedCount)
	sh.printf("   Passing threshold: %.1f\n", st.Threshold)
	if st.PassedMean != nil {
		sh.printf("   Average (passed): %.2f\n", *st.PassedMean)
	}
	if st.FailedMean != nil {
		sh.printf("   Average (failed): %.2f\n", *st.FailedMean)
	}
	return nil
}

func (sh *Shell) filter(ctx context.Context) error {
	sh.header("FILTER BY PASS/FAIL STATUS")
	if sh.store.Len() == 0 {
		sh.println("No records available.")
		return nil
	}

	var wantPass bool
	for {
		choice, err := sh.prompt(ctx, "Enter 'pass' to show passed, 'fail' to show failed: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(choice) {
		case "pass":
			wantPass = true
		case "fail":
			wantPass = false
		default:
			sh.println("Invalid choice. Please enter 'pass' or 'fail'.")
			continue
		}
		break
	}

	matched := query.Filter(sh.store.Snapshot().Records, wantPass)
	label := record.StatusLabel(wantPass)
	if len(matched) == 0 {
		sh.printf("No candidates with %s status found.\n", label)
		return nil
	}
	sh.printf("\n%sED CANDIDATES (%d found)\n", label, len(matched))
	sh.println(strings.Repeat("=", narrowRule))
	data, err := formatRecords(matched)
	if err != nil {
		return err
	}
	_, err = sh.out.Write(data)
	return err
}

func (sh *Shell) save() error {
	sh.header("SAVE DATA TO JSON FILE")
	if err := sh.store.Save(); err != nil {
		sh.saveFailed("save", err)
		return nil
	}
	sh.saved()
	sh.printf("   Records: %d\n", sh.store.Len())
	sh.printf("   Max score: %s\n", validate.FormatNumber(sh.store.MaxScore()))
	return nil
}

func (sh *Shell) setMaxScore(ctx context.Context) error {
	sh.header("SET MAXIMUM SAT SCORE")
	sh.printf("Current max score: %s\n", validate.FormatNumber(sh.store.MaxScore()))

	var maxScore float64
	for {
		line, err := sh.prompt(ctx, "Enter new maximum SAT score (or press Enter to cancel): ")
		if err != nil {
			return err
		}
		if line == "" {
			sh.println("Operation cancelled.")
			return nil
		}
		maxScore, err = validate.MaxScore(line)
		if err == nil {
			err = validate.MaxScoreCovers(maxScore, sh.store.HighestScore())
		}
		if err != nil {
			sh.invalid(err)
			continue
		}
		break
	}

	change, err := sh.store.SetMaxScore(maxScore)
	if err != nil {
		if errors.Is(err, store.ErrWriteFailed) {
			sh.saveFailed("set max score", err)
			sh.println("Max score not updated.")
			return nil
		}
		sh.printf("Error: %v\n", err)
		return nil
	}
	sh.saved()
	sh.printf("Max score updated: %s -> %s\n", validate.FormatNumber(change.Old), validate.FormatNumber(change.New))
	if change.Flipped > 0 {
		sh.printf("   %d candidate(s) had their pass/fail status updated.\n", change.Flipped)
	}
	return nil
}

// viewDocument is the shape printed by View: the stored document plus a count.
type viewDocument struct {
	MaxScore        float64                  `json:"max_score"`
	TotalCandidates int                      `json:"total_candidates"`
	Records         map[string]record.Record `json:"records"`
}

// formatView renders the document as indented JSON with a candidate count.
func formatView(doc *record.Document) ([]byte, error) {
	return encodeIndented(viewDocument{
		MaxScore:        doc.MaxScore,
		TotalCandidates: len(doc.Records),
		Records:         doc.Records,
	})
}

// formatRecords renders a record list as an indented JSON array.
func formatRecords(records []record.Record) ([]byte, error) {
	return encodeIndented(records)
}

func encodeIndented(v any) ([]byte, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return []byte(buf.String()), nil
}
