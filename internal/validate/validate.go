// Package validate checks candidate input before it reaches the store.
//
// Every check returns a *Error carrying a stable code so the shell can print
// a message and re-prompt, and tests can match on the code.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/satman/internal/record"
)

// Name checks a candidate name. The name is normalized first; exists reports
// whether a normalized name is already taken (nil skips the uniqueness check).
// Returns the normalized name.
func Name(name string, exists func(string) bool) (string, error) {
	n := record.NormalizeName(name)
	if n == "" {
		return "", newError("name", ErrNameEmpty, "name cannot be empty")
	}
	if utf8.RuneCountInString(n) > record.MaxNameLength {
		return "", newError("name", ErrNameTooLong,
			fmt.Sprintf("name too long (max %d characters)", record.MaxNameLength))
	}
	if exists != nil && exists(n) {
		return "", newError("name", ErrNameExists,
			fmt.Sprintf("a record for %q already exists", n))
	}
	return n, nil
}

// Score parses a score and checks 0 <= score <= maxScore.
func Score(input string, maxScore float64) (float64, error) {
	score, err := parseNumber(input)
	if err != nil {
		return 0, newError("sat_score", ErrScoreNotNumber, "please enter a valid numeric score")
	}
	return score, ScoreValue(score, maxScore)
}

// ScoreValue checks an already-parsed score against the bounds.
func ScoreValue(score, maxScore float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return newError("sat_score", ErrScoreNotNumber, "please enter a valid numeric score")
	}
	if score < 0 {
		return newError("sat_score", ErrScoreNegative, "score cannot be negative")
	}
	if score > maxScore {
		return newError("sat_score", ErrScoreTooHigh,
			fmt.Sprintf("score cannot exceed maximum (%s)", FormatNumber(maxScore)))
	}
	return nil
}

// MaxScore parses a new maximum score; it must be positive.
func MaxScore(input string) (float64, error) {
	v, err := parseNumber(input)
	if err != nil {
		return 0, newError("max_score", ErrMaxNotPositive, "please enter a valid number")
	}
	return v, MaxScoreValue(v)
}

// MaxScoreValue checks an already-parsed max score.
func MaxScoreValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return newError("max_score", ErrMaxNotPositive, "please enter a positive number")
	}
	return nil
}

// MaxScoreCovers checks that a new max score is not below the highest
// recorded score, so every stored score stays within range.
func MaxScoreCovers(maxScore, highest float64) error {
	if maxScore < highest {
		return newError("max_score", ErrMaxBelowScore,
			fmt.Sprintf("max score cannot be below the highest recorded score (%s)", FormatNumber(highest)))
	}
	return nil
}

// Pincode checks a pincode: non-empty, digits only, at least MinPincodeDigits.
// Returns the trimmed pincode.
func Pincode(input string) (string, error) {
	p := strings.TrimSpace(input)
	if p == "" {
		return "", newError("pincode", ErrPincodeEmpty, "pincode cannot be empty")
	}
	if len(p) < record.MinPincodeDigits || !isDigits(p) {
		return "", newError("pincode", ErrPincodeFormat,
			fmt.Sprintf("please enter a valid pincode (numbers only, min %d digits)", record.MinPincodeDigits))
	}
	return p, nil
}

// Record checks every field of a complete record against maxScore.
// Uniqueness is the store's concern and is not checked here.
func Record(r record.Record, maxScore float64) error {
	var errs Errors
	_, err := Name(r.Name, nil)
	errs.Add(err)
	_, err = Pincode(r.Pincode)
	errs.Add(err)
	errs.Add(ScoreValue(r.SATScore, maxScore))
	return errs.Err()
}

// FormatNumber renders a float without a trailing ".0" for whole values.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", input)
	}
	return v, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
