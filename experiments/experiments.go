package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"weiqi/config"
	"weiqi/engine"
	"weiqi/experiments/metrics"
	"weiqi/game"
	"weiqi/searcher"
)

// Settings describe the games of an experiment.
type Settings struct {
	Dir     string // results go to Dir/<name>/<timestamp>
	Games   int    // per match up
	Size    uint8
	Komi    float32
	Budget  time.Duration
	Threads []int
}

func DefaultSettings() Settings {
	return Settings{
		Dir:     "results",
		Games:   20,
		Size:    9,
		Komi:    7.5,
		Budget:  500 * time.Millisecond,
		Threads: []int{1, 2, 4, 8, 16},
	}
}

// RunThreadsExperiment pairs a sequential baseline against every thread
// count in s and returns the directory holding the results.
func RunThreadsExperiment(cfg config.Config, s Settings) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Threads: 1, Budget: s.Budget}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for i, threads := range s.Threads {
		config := metrics.AgentConfig{ID: i + 1, Threads: threads, Budget: s.Budget}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	return runExperiment("threads", cfg, s, configs, matchUps)
}

func runExperiment(name string, cfg config.Config, s Settings, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (string, error) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchup[0], matchup[1])

		for i := 0; i < s.Games; i++ {
			// Alternate colors so that neither agent always gets the first move
			black, white := matchup[0], matchup[1]
			if i%2 == 1 {
				black, white = white, black
			}

			winner, gameMetric, moveMetrics := runGame(cfg, s, black, white)
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Black:      black.ID,
				White:      white.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %v", mi+1, len(matchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(s.Dir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())

	return writer.Dir(), nil
}

// runGame plays a single game between two agents
func runGame(cfg config.Config, s Settings, black, white metrics.AgentConfig) (game.Color, metrics.GameMetric, []metrics.MoveMetric) {
	timeConfig := cfg.Time
	timeConfig.DefaultBudget = s.Budget
	e := engine.LocalEngine(
		game.New(s.Size, s.Komi),
		engine.NewController(createMCTS(cfg, black)),
		engine.NewController(createMCTS(cfg, white)),
		timeConfig,
	)
	return e.Run()
}

func createMCTS(cfg config.Config, agent metrics.AgentConfig) *searcher.MCTS {
	return searcher.NewMCTS(cfg,
		searcher.WithThreads(agent.Threads),
		searcher.WithLogger(log.Logger),
		searcher.WithMetrics(),
	)
}
