package word

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{
			name:    "valid record",
			record:  Record{Word: "cat", Frequency: 3, Time: 2, Period: "p1"},
			wantErr: nil,
		},
		{
			name:    "zero time is allowed",
			record:  Record{Word: "cat", Time: 0},
			wantErr: nil,
		},
		{
			name:    "empty word",
			record:  Record{Word: "", Time: 1},
			wantErr: ErrEmptyWord,
		},
		{
			name:    "whitespace word",
			record:  Record{Word: "   ", Time: 1},
			wantErr: ErrEmptyWord,
		},
		{
			name:    "negative time",
			record:  Record{Word: "cat", Time: -1},
			wantErr: ErrNegativeTime,
		},
		{
			name:    "negative frequency",
			record:  Record{Word: "cat", Frequency: -2},
			wantErr: ErrNegativeFrequency,
		},
		{
			name:    "NaN time",
			record:  Record{Word: "cat", Time: math.NaN()},
			wantErr: ErrNotFinite,
		},
		{
			name:    "infinite frequency",
			record:  Record{Word: "cat", Frequency: math.Inf(1)},
			wantErr: ErrNotFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateAll(t *testing.T) {
	t.Run("valid records", func(t *testing.T) {
		records := []Record{{Word: "cat", Time: 2}, {Word: "car", Time: 3}}
		assert.NoError(t, ValidateAll(records))
	})

	t.Run("invalid record reports index", func(t *testing.T) {
		records := []Record{{Word: "cat", Time: 2}, {Word: "car", Time: -3}}
		err := ValidateAll(records)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNegativeTime))
		assert.Contains(t, err.Error(), "record 1")
	})

	t.Run("duplicate words", func(t *testing.T) {
		records := []Record{{Word: "cat", Time: 2}, {Word: "cat", Time: 3}}
		err := ValidateAll(records)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateWord)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.NoError(t, ValidateAll(nil))
	})
}

func TestFindDuplicateWords(t *testing.T) {
	records := []Record{
		{Word: "cat"}, {Word: "dog"}, {Word: "cat"}, {Word: "cat"}, {Word: "car"},
	}
	got := FindDuplicateWords(records)
	assert.Equal(t, map[string]int{"cat": 3}, got)
}

func TestPeriods(t *testing.T) {
	records := []Record{
		{Word: "a", Period: "p2"},
		{Word: "b", Period: "p1"},
		{Word: "c", Period: "p2"},
		{Word: "d", Period: ""},
	}
	assert.Equal(t, []string{"p1", "p2"}, Periods(records))
	assert.Empty(t, Periods(nil))
}

func TestWords(t *testing.T) {
	records := []Record{{Word: "cat"}, {Word: "car"}, {Word: "dog"}}
	assert.Equal(t, []string{"cat", "car", "dog"}, Words(records))
}

func TestSample(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	records := Sample(rng, 20)
	require.Len(t, records, 20)
	require.NoError(t, ValidateAll(records))

	for _, r := range records {
		assert.GreaterOrEqual(t, r.Time, 0.0)
		assert.LessOrEqual(t, r.Time, 12.0)
		assert.GreaterOrEqual(t, r.Frequency, 1.0)
		assert.Contains(t, SamplePeriods, r.Period)
	}

	t.Run("same seed same data", func(t *testing.T) {
		a := Sample(rand.New(rand.NewPCG(7, 7)), 10)
		b := Sample(rand.New(rand.NewPCG(7, 7)), 10)
		assert.Equal(t, a, b)
	})

	t.Run("capped at vocabulary size", func(t *testing.T) {
		got := Sample(rng, 10000)
		assert.Len(t, got, len(sampleVocabulary))
	})

	t.Run("non-positive count", func(t *testing.T) {
		assert.Nil(t, Sample(rng, 0))
	})
}
