package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Threads          int       `yaml:"threads"`
	Seed             uint64    `yaml:"seed"`
	LogLevel         string    `yaml:"log_level"`
	PlayOutAftermath bool      `yaml:"play_out_aftermath"`
	UCT              UCT       `yaml:"uct"`
	Playout          Playout   `yaml:"playout"`
	Time             Time      `yaml:"time"`
	Ownership        Ownership `yaml:"ownership"`
}

type UCT struct {
	// Tree is the node variant, plain uct or uct with rave.
	Tree string `yaml:"tree"`
	// A leaf is expanded once it has been visited this many times.
	ExpandAfter     uint32  `yaml:"expand_after"`
	Exploration     float64 `yaml:"exploration"`
	ReuseSubtree    bool    `yaml:"reuse_subtree"`
	EndOfGameCutoff float64 `yaml:"end_of_game_cutoff"`
	// RAVEBias is the expected difference between the all-moves-as-first
	// value and the real one. Smaller values trust the former for longer.
	RAVEBias float64 `yaml:"rave_bias"`
}

type Playout struct {
	Type               string  `yaml:"type"`
	AtariCheck         bool    `yaml:"atari_check"`
	LadderCheck        bool    `yaml:"ladder_check"`
	PatternProbability float64 `yaml:"pattern_probability"`
	RNG                string  `yaml:"rng"`
}

type Time struct {
	DefaultBudget time.Duration `yaml:"default_budget"`
	SafetyMargin  time.Duration `yaml:"safety_margin"`
	MinMovesLeft  int           `yaml:"min_moves_left"`
}

type Ownership struct {
	Cutoff float64 `yaml:"cutoff"`
}

const (
	TreeUCT  = "uct"
	TreeRAVE = "rave"

	PlayoutLight       = "light"
	PlayoutNoSelfAtari = "no_self_atari"

	RNGPCG     = "pcg"
	RNGMT19937 = "mt19937"
)

var ErrInvalid = errors.New("invalid config")

func Default() Config {
	return Config{
		Threads:          1,
		LogLevel:         "info",
		PlayOutAftermath: true,
		UCT: UCT{
			Tree:            TreeUCT,
			ExpandAfter:     1,
			Exploration:     0.44,
			ReuseSubtree:    true,
			EndOfGameCutoff: 0.08,
			RAVEBias:        0.5,
		},
		Playout: Playout{
			Type:               PlayoutNoSelfAtari,
			AtariCheck:         true,
			LadderCheck:        false,
			PatternProbability: 0.9,
			RNG:                RNGPCG,
		},
		Time: Time{
			DefaultBudget: 5 * time.Second,
			SafetyMargin:  100 * time.Millisecond,
			MinMovesLeft:  30,
		},
		Ownership: Ownership{
			Cutoff: 0.9,
		},
	}
}

// Load reads a yaml file on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Threads < 1:
		return fmt.Errorf("%w: threads must be positive, got %d", ErrInvalid, c.Threads)
	case c.UCT.Tree != TreeUCT && c.UCT.Tree != TreeRAVE:
		return fmt.Errorf("%w: unknown tree %q", ErrInvalid, c.UCT.Tree)
	case c.UCT.RAVEBias <= 0:
		return fmt.Errorf("%w: uct.rave_bias must be positive", ErrInvalid)
	case c.UCT.ExpandAfter < 1:
		return fmt.Errorf("%w: uct.expand_after must be positive", ErrInvalid)
	case c.UCT.Exploration < 0:
		return fmt.Errorf("%w: uct.exploration must not be negative", ErrInvalid)
	case c.UCT.EndOfGameCutoff < 0 || c.UCT.EndOfGameCutoff > 1:
		return fmt.Errorf("%w: uct.end_of_game_cutoff must be in [0, 1]", ErrInvalid)
	case c.Playout.Type != PlayoutLight && c.Playout.Type != PlayoutNoSelfAtari:
		return fmt.Errorf("%w: unknown playout type %q", ErrInvalid, c.Playout.Type)
	case c.Playout.RNG != RNGPCG && c.Playout.RNG != RNGMT19937:
		return fmt.Errorf("%w: unknown rng %q", ErrInvalid, c.Playout.RNG)
	case c.Playout.PatternProbability < 0 || c.Playout.PatternProbability > 1:
		return fmt.Errorf("%w: playout.pattern_probability must be in [0, 1]", ErrInvalid)
	case c.Ownership.Cutoff <= 0.5 || c.Ownership.Cutoff > 1:
		return fmt.Errorf("%w: ownership.cutoff must be in (0.5, 1]", ErrInvalid)
	case c.Time.DefaultBudget <= 0:
		return fmt.Errorf("%w: time.default_budget must be positive", ErrInvalid)
	}
	return nil
}
