package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"weiqi/config"
	"weiqi/engine"
	"weiqi/experiments"
	"weiqi/game"
	"weiqi/gtp"
	"weiqi/searcher"
	"weiqi/timer"
)

const (
	name    = "weiqi"
	version = "0.3.0"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	mode := flag.String("mode", "gtp", "One of gtp, selfplay or experiment")
	threads := flag.Int("threads", 0, "Number of playout goroutines, overrides the config")
	logLevel := flag.String("log-level", "", "Log level, overrides the config")
	size := flag.Uint("size", 9, "Board size for selfplay and experiments")
	komi := flag.Float64("komi", 7.5, "Komi for selfplay and experiments")
	outDir := flag.String("out-dir", "results", "Output directory for experiment results")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = loaded
	}
	if *threads > 0 {
		cfg.Threads = *threads
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *size == 0 || *size > uint(game.MaxSize) {
		fmt.Fprintf(os.Stderr, "invalid board size %d\n", *size)
		os.Exit(2)
	}

	// GTP owns stdout, so logs always go to stderr
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	switch *mode {
	case "gtp":
		err = runGTP(cfg)
	case "selfplay":
		runSelfPlay(cfg, uint8(*size), float32(*komi))
	case "experiment":
		s := experiments.DefaultSettings()
		s.Dir = *outDir
		s.Size = uint8(*size)
		s.Komi = float32(*komi)
		_, err = experiments.RunThreadsExperiment(cfg, s)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(*mode)
	}
}

func newController(cfg config.Config) *engine.Controller {
	mcts := searcher.NewMCTS(cfg,
		searcher.WithThreads(cfg.Threads),
		searcher.WithLogger(log.Logger),
	)
	return engine.NewController(mcts)
}

func runGTP(cfg config.Config) error {
	interpreter := gtp.NewInterpreter(newController(cfg), timer.New(cfg.Time), name, version)
	interpreter.SetProfile(termenv.NewOutput(os.Stdout).Profile)
	return gtp.Serve(interpreter, os.Stdin, os.Stdout)
}

func runSelfPlay(cfg config.Config, size uint8, komi float32) {
	e := engine.LocalEngine(game.New(size, komi), newController(cfg), newController(cfg), cfg.Time)
	winner, gameMetric, moveMetrics := e.Run()
	fmt.Println(e.Game.Board().Render(termenv.NewOutput(os.Stdout).Profile))
	fmt.Printf("%v wins (%s) after %d moves in %v\n", winner, gameMetric.Score, len(moveMetrics), gameMetric.Duration)
}
