package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunnerRun(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	specs := []Spec{
		{Name: "clear", Board: mustParse(t, "...", "...")},
		{Name: "doomed", Board: mustParse(t, "X")},
		{Name: "mixed", Board: mustParse(t, "X...", "....", "..X.", "...."), Seed: 3},
		{Name: "capped", Board: mustParse(t, "X...", "....", "....", "...X"), MaxMoves: 1, Seed: 9},
	}
	runner := &Runner{Workers: 2, Logger: zaptest.NewLogger(t), Metrics: m}

	results, err := runner.Run(context.Background(), specs)
	require.NoError(t, err)
	require.Len(t, results, len(specs))

	for i, res := range results {
		assert.Equal(t, specs[i].Name, res.Name)
		assert.NotEqual(t, Playing, res.Status, res.Name)
		assert.NoError(t, res.Err, res.Name)
	}
	assert.Equal(t, Won, results[0].Status)
	assert.Equal(t, Lost, results[1].Status)
	assert.LessOrEqual(t, len(results[3].Moves), 1)

	finished := 0.0
	for _, status := range []Status{Won, Lost, Stuck} {
		finished += testutil.ToFloat64(m.games.WithLabelValues(status.String()))
	}
	assert.Equal(t, float64(len(specs)), finished)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.games.WithLabelValues("lost")), 1.0)
}

func TestRunnerDeterministic(t *testing.T) {
	specs := []Spec{
		{Name: "a", Board: mustParse(t, "X....", ".....", "..X..", ".....", "....X"), Seed: 11},
	}
	runner := &Runner{}

	first, err := runner.Run(context.Background(), specs)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), specs)
	require.NoError(t, err)

	assert.Equal(t, first[0].Status, second[0].Status)
	assert.Equal(t, first[0].Moves, second[0].Moves)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	specs := make([]Spec, 20)
	for i := range specs {
		specs[i] = Spec{Name: fmt.Sprintf("s%02d", i), Board: mustParse(t, "..", ".X")}
	}
	results, err := (&Runner{Workers: 1}).Run(ctx, specs)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, len(specs))

	// Submitted or not, every slot names its session and carries the cause.
	for i, res := range results {
		assert.Equal(t, specs[i].Name, res.Name)
		assert.Equal(t, Playing, res.Status, res.Name)
		assert.ErrorIs(t, res.Err, context.Canceled, res.Name)
		assert.Empty(t, res.Moves, res.Name)
	}
}

const batchYAML = `
workers: 2
logging:
  level: error
metrics:
  enabled: true
sessions:
  - name: clear
    layout: ["....", "...."]
  - name: doomed
    layout: ["*"]
  - name: corner
    seed: 5
    layout:
      - "X..."
      - "...."
      - "...X"
`

func TestRunYAML(t *testing.T) {
	reg := prometheus.NewRegistry()
	results, err := RunYAML(context.Background(), []byte(batchYAML), reg)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "clear", results[0].Name)
	assert.Equal(t, Won, results[0].Status)
	assert.Equal(t, Lost, results[1].Status)
	assert.NotEqual(t, Playing, results[2].Status)

	n, err := testutil.GatherAndCount(reg, "minesweeper_sessions_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)

	n, err = testutil.GatherAndCount(reg, "minesweeper_kb_observations_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}

func TestRunYAMLInvalid(t *testing.T) {
	_, err := RunYAML(context.Background(), []byte("workers: 1"), nil)
	assert.Error(t, err)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batchYAML), 0o600))

	results, err := RunFile(context.Background(), path, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, results, 3)

	_, err = RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}
