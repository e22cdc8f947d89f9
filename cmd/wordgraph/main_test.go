package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/matsen/wordgraph/internal/config"
	"github.com/matsen/wordgraph/internal/graph"
	"github.com/matsen/wordgraph/internal/storage"
	"github.com/matsen/wordgraph/internal/word"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid config", fmt.Errorf("loading: %w", config.ErrInvalid), ExitConfigError},
		{"duplicate word", fmt.Errorf("validating records: %w", word.ErrDuplicateWord), ExitDataError},
		{"negative time", word.ErrNegativeTime, ExitDataError},
		{"matrix size", graph.ErrMatrixSize, ExitDataError},
		{"other", fmt.Errorf("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestSplitPeriods(t *testing.T) {
	assert.Nil(t, splitPeriods(""))
	assert.Equal(t, []string{"p1", "p2"}, splitPeriods(" p1, ,p2 "))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = newLogger("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func newFlagCommand(f *pipelineFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	cmd.SetContext(context.Background())
	return cmd
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wg.yml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 0.7\nclusters: 3\nperiod: p1\n"), 0644))

	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })

	var f pipelineFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.Flags().Parse([]string{"--threshold", "0.2", "--seed", "9", "--per-pair"}))

	cfg, err := f.loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Threshold)
	assert.Equal(t, 3, cfg.Clusters, "unset flags keep file values")
	assert.Equal(t, "p1", cfg.Period)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(9), *cfg.Seed)
	assert.True(t, cfg.PerPairDraws)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	old := configPath
	configPath = filepath.Join(t.TempDir(), "missing.yml")
	t.Cleanup(func() { configPath = old })

	var f pipelineFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.Flags().Parse([]string{"--clusters", "0"}))

	_, err := f.loadConfig(cmd)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	records := []word.Record{
		{Word: "cat", Time: 2, Period: "p1"},
		{Word: "dog", Time: 8, Period: "p2"},
	}
	jsonl := filepath.Join(dir, "words.jsonl")
	require.NoError(t, storage.WriteRecords(jsonl, records))

	t.Run("from records file", func(t *testing.T) {
		f := pipelineFlags{records: jsonl}
		got, err := f.loadRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("from db cache", func(t *testing.T) {
		dbPath := filepath.Join(dir, "words.db")
		db, err := storage.OpenDB(dbPath)
		require.NoError(t, err)
		_, err = db.RebuildFromJSONL(ctx, jsonl)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		f := pipelineFlags{db: dbPath}
		got, err := f.loadRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("missing records file", func(t *testing.T) {
		f := pipelineFlags{records: filepath.Join(dir, "nope.jsonl")}
		_, err := f.loadRecords(ctx)
		assert.Error(t, err)
	})

	t.Run("no source", func(t *testing.T) {
		var f pipelineFlags
		_, err := f.loadRecords(ctx)
		assert.Error(t, err)
	})
}

func TestNewAssembler_UsesConfig(t *testing.T) {
	seed := uint64(4)
	cfg := config.Default()
	cfg.Seed = &seed
	cfg.Clusters = 2
	cfg.EmbeddingModel = "mistral-embed"

	records := []word.Record{
		{Word: "cat", Time: 2, Period: "p1"},
		{Word: "car", Time: 3, Period: "p1"},
		{Word: "dog", Time: 8, Period: "p2"},
	}
	a := newAssembler(cfg, nil)
	snap, err := a.Run(context.Background(), records, cfg.Params())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Clusters)
	assert.Equal(t, "mistral-embed", snap.Model)

	again, err := newAssembler(cfg, nil).Run(context.Background(), records, cfg.Params())
	require.NoError(t, err)
	assert.Equal(t, snap.Links, again.Links)
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.html")
	require.NoError(t, writeHTML(path, "<html>one</html>"))
	require.NoError(t, writeHTML(path, "<html>two</html>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>two</html>", string(data))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
