// Package word defines the word-activity record that feeds the graph pipeline.
package word

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// AllPeriods selects records from every period.
const AllPeriods = "all"

// Record is one word with its activity data. Records are inputs only and are
// never modified by the pipeline.
type Record struct {
	Word      string  `json:"word"`      // Unique key
	Frequency float64 `json:"frequency"` // Occurrence count
	Time      float64 `json:"time"`      // Activity hours, >= 0
	Period    string  `json:"period"`    // Category tag, e.g. "2024-q1"
}

// Validation errors.
var (
	ErrEmptyWord         = errors.New("word is required")
	ErrNegativeTime      = errors.New("time must be >= 0")
	ErrNegativeFrequency = errors.New("frequency must be >= 0")
	ErrNotFinite         = errors.New("time and frequency must be finite")
	ErrDuplicateWord     = errors.New("duplicate word")
)

// Validate checks that the record is well formed.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Word) == "" {
		return ErrEmptyWord
	}
	if math.IsNaN(r.Time) || math.IsInf(r.Time, 0) || math.IsNaN(r.Frequency) || math.IsInf(r.Frequency, 0) {
		return ErrNotFinite
	}
	if r.Time < 0 {
		return ErrNegativeTime
	}
	if r.Frequency < 0 {
		return ErrNegativeFrequency
	}
	return nil
}

// ValidateAll validates every record and rejects duplicate words.
// The returned error names the offending record index.
func ValidateAll(records []Record) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %d (%q): %w", i, records[i].Word, err)
		}
	}
	for w, count := range FindDuplicateWords(records) {
		return fmt.Errorf("%w: %q appears %d times", ErrDuplicateWord, w, count)
	}
	return nil
}

// FindDuplicateWords returns a map of word to count for words that appear
// more than once.
func FindDuplicateWords(records []Record) map[string]int {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.Word]++
	}

	duplicates := make(map[string]int)
	for w, count := range counts {
		if count > 1 {
			duplicates[w] = count
		}
	}
	return duplicates
}

// Periods returns the distinct periods present in records, sorted.
func Periods(records []Record) []string {
	seen := make(map[string]bool)
	var periods []string
	for _, r := range records {
		if r.Period == "" || seen[r.Period] {
			continue
		}
		seen[r.Period] = true
		periods = append(periods, r.Period)
	}
	sort.Strings(periods)
	return periods
}

// Words extracts the word of each record, in order.
func Words(records []Record) []string {
	words := make([]string, len(records))
	for i, r := range records {
		words[i] = r.Word
	}
	return words
}
