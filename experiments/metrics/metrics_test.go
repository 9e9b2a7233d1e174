package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4)
	c.SetTreeReset(false)
	c.SetReusedNodes(120)
	for i := 0; i < 3; i++ {
		c.AddPlayout()
	}

	metric := c.Complete(500, 0.6)

	require.Equal(t, 4, metric.Threads)
	require.Equal(t, 3, metric.Playouts)
	require.Equal(t, 500, metric.Nodes)
	require.Equal(t, 120, metric.ReusedNodes)
	require.Equal(t, 0.6, metric.WinRatio)
	require.False(t, metric.IsTreeReset)

	c.Start(2)
	require.Zero(t, c.Complete(0, 0).Playouts, "Start should clear the counters")
	require.True(t, c.Complete(0, 0).IsTreeReset)
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start(4)
	c.AddPlayout()

	require.Equal(t, SearchMetric{}, c.Complete(10, 0.5))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "threads")
	require.NoError(t, err)

	t.Run("agent configs", func(t *testing.T) {
		err := w.WriteAgentConfigs([]AgentConfig{{ID: 1, Threads: 8, Budget: time.Second}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, [][]string{{"id", "threads", "budget"}, {"1", "8", "1s"}}, rows)
	})

	t.Run("game records", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{{
			ID:    1,
			Black: 1,
			White: 2,
			GameMetric: GameMetric{
				Winner:     "Black",
				Score:      "B+3.5",
				StartTime:  start,
				EndTime:    start.Add(time.Minute),
				Duration:   time.Minute,
				TotalMoves: 120,
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "1", "2", "Black", "B+3.5", "2024-01-02T03:04:05Z", "2024-01-02T03:05:05Z", "1m0s", "120"}, rows[1])
	})

	t.Run("move records", func(t *testing.T) {
		err := w.WriteMoveRecords([]MoveRecord{{
			Game: 1,
			MoveMetric: MoveMetric{
				Step:  3,
				Color: "White",
				Move:  "D4",
				SearchMetric: SearchMetric{
					Threads:  2,
					Duration: 10 * time.Millisecond,
					Playouts: 42,
					Nodes:    80,
					WinRatio: 0.5,
				},
			},
		}})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"1", "3", "White", "D4", "2", "10ms", "42", "80", "0", "0.5000", "false"}, rows[1])
	})
}
