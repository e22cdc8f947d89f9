package word

import (
	"math"
	"math/rand/v2"
)

// sampleVocabulary is the built-in word list used for demo datasets.
var sampleVocabulary = []string{
	"cat", "car", "card", "care", "career", "carbon", "dog", "dot", "door",
	"data", "date", "database", "graph", "grape", "graphic", "network", "net",
	"neural", "node", "noise", "model", "mode", "modem", "time", "timer",
	"timeline", "word", "work", "world", "cluster", "clue", "code", "coder",
	"signal", "sign", "simple", "similar", "vector", "verse", "version",
}

// SamplePeriods are the period tags assigned by Sample.
var SamplePeriods = []string{"2024-q1", "2024-q2", "2024-q3", "2024-q4"}

// Sample generates up to n mock records from the built-in vocabulary.
// Time is drawn from [0, 12] hours in half-hour steps and frequency from
// [1, 100]. A nil rng uses a randomly seeded source.
func Sample(rng *rand.Rand, n int) []Record {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if n > len(sampleVocabulary) {
		n = len(sampleVocabulary)
	}
	if n <= 0 {
		return nil
	}

	perm := rng.Perm(len(sampleVocabulary))
	records := make([]Record, 0, n)
	for _, idx := range perm[:n] {
		records = append(records, Record{
			Word:      sampleVocabulary[idx],
			Frequency: float64(1 + rng.IntN(100)),
			Time:      math.Round(rng.Float64()*24) / 2,
			Period:    SamplePeriods[rng.IntN(len(SamplePeriods))],
		})
	}
	return records
}
