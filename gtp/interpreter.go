// Package gtp speaks the Go Text Protocol.
package gtp

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/muesli/termenv"

	"weiqi/game"
	"weiqi/ownership"
	"weiqi/timer"
)

var (
	ErrEmptyCommand    = errors.New("empty command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrSyntax          = errors.New("syntax error")
	ErrIllegalMove     = errors.New("illegal move")
	ErrBoardSize       = errors.New("unacceptable size")
)

const (
	DefaultSize = 19
	DefaultKomi = 6.5
)

var knownCommands = []string{
	"boardsize",
	"clear_board",
	"final_score",
	"genmove",
	"known_command",
	"komi",
	"list_commands",
	"name",
	"ownership",
	"play",
	"protocol_version",
	"quit",
	"showboard",
	"time_left",
	"time_settings",
	"version",
}

// Player is the engine side of the protocol.
type Player interface {
	GenMove(color game.Color, g *game.Game, t *timer.Timer) (game.Move, int)
	Reset(size uint8, komi float32)
	Ownership() *ownership.Statistics
}

type Interpreter struct {
	player  Player
	timer   *timer.Timer
	game    *game.Game
	profile termenv.Profile
	name    string
	version string
	quit    bool
}

func NewInterpreter(player Player, t *timer.Timer, name, version string) *Interpreter {
	i := &Interpreter{
		player:  player,
		timer:   t,
		game:    game.New(DefaultSize, DefaultKomi),
		profile: termenv.Ascii,
		name:    name,
		version: version,
	}
	i.player.Reset(DefaultSize, DefaultKomi)
	return i
}

// SetProfile turns on coloured stones in showboard.
func (i *Interpreter) SetProfile(profile termenv.Profile) {
	i.profile = profile
}

func (i *Interpreter) Game() *game.Game {
	return i.game
}

// Done reports whether quit has been received.
func (i *Interpreter) Done() bool {
	return i.quit
}

// Read executes one command line and returns the response text.
func (i *Interpreter) Read(input string) (string, error) {
	fields := strings.Fields(Preprocess(input))
	if len(fields) == 0 {
		return "", ErrEmptyCommand
	}
	command, args := fields[0], fields[1:]

	switch command {
	case "protocol_version":
		return "2", nil
	case "name":
		return i.name, nil
	case "version":
		return i.version, nil
	case "list_commands":
		return strings.Join(knownCommands, "\n"), nil
	case "known_command":
		if len(args) < 1 {
			return "", ErrMissingArgument
		}
		return strconv.FormatBool(slices.Contains(knownCommands, args[0])), nil
	case "quit":
		i.quit = true
		return "", nil
	case "boardsize":
		return "", i.boardSize(args)
	case "clear_board":
		i.clearBoard(i.game.Size(), i.game.Komi())
		return "", nil
	case "komi":
		return "", i.komi(args)
	case "play":
		return "", i.play(args)
	case "genmove":
		return i.genMove(args)
	case "final_score":
		return i.finalScore(), nil
	case "showboard":
		return "\n" + i.game.Board().Render(i.profile), nil
	case "ownership":
		return "\n" + i.player.Ownership().String(), nil
	case "time_settings":
		return "", i.timeSettings(args)
	case "time_left":
		return "", i.timeLeft(args)
	}
	return "", ErrUnknownCommand
}

// Preprocess turns tabs into spaces, drops other control characters and
// strips comments.
func Preprocess(input string) string {
	if i := strings.IndexByte(input, '#'); i >= 0 {
		input = input[:i]
	}
	input = strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(input)
}

func (i *Interpreter) clearBoard(size uint8, komi float32) {
	i.game = game.New(size, komi)
	i.timer.Reset()
	i.player.Reset(size, komi)
}

func (i *Interpreter) boardSize(args []string) error {
	if len(args) < 1 {
		return ErrMissingArgument
	}
	size, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return ErrSyntax
	}
	if size < 1 || size > uint64(game.MaxSize) {
		return ErrBoardSize
	}
	i.clearBoard(uint8(size), i.game.Komi())
	return nil
}

func (i *Interpreter) komi(args []string) error {
	if len(args) < 1 {
		return ErrMissingArgument
	}
	komi, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return ErrSyntax
	}
	i.game = i.game.WithKomi(float32(komi))
	i.player.Reset(i.game.Size(), i.game.Komi())
	return nil
}

func (i *Interpreter) play(args []string) error {
	if len(args) < 2 {
		return ErrMissingArgument
	}
	m, err := game.ParseMove(args[0], args[1])
	if err != nil {
		return ErrSyntax
	}
	// Two moves in a row by the same side: the other side passed.
	if m.Color() != i.game.NextPlayer() && !i.game.IsOver() {
		if err := i.apply(game.Pass(i.game.NextPlayer())); err != nil {
			return err
		}
	}
	return i.apply(m)
}

func (i *Interpreter) genMove(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingArgument
	}
	color, err := game.ParseColor(args[0])
	if err != nil {
		return "", ErrSyntax
	}
	if i.game.IsOver() {
		return game.Pass(color).GTP(), nil
	}
	if color != i.game.NextPlayer() {
		if err := i.apply(game.Pass(i.game.NextPlayer())); err != nil {
			return "", err
		}
	}
	m, _ := i.player.GenMove(color, i.game, i.timer)
	if err := i.apply(m); err != nil {
		return "", err
	}
	return m.GTP(), nil
}

func (i *Interpreter) apply(m game.Move) error {
	next, err := i.game.Play(m)
	if err != nil {
		return fmt.Errorf("%w: %s (%v)", ErrIllegalMove, m.GTP(), err)
	}
	i.game = next
	return nil
}

func (i *Interpreter) finalScore() string {
	history := i.game.History()
	if len(history) > 0 && history[len(history)-1].IsResign() {
		if i.game.Winner() == game.Black {
			return "B+R"
		}
		return "W+R"
	}
	return i.game.Score().String()
}

func (i *Interpreter) timeSettings(args []string) error {
	if len(args) < 3 {
		return ErrMissingArgument
	}
	main, err1 := strconv.Atoi(args[0])
	byo, err2 := strconv.Atoi(args[1])
	stones, err3 := strconv.Atoi(args[2])
	if err := errors.Join(err1, err2, err3); err != nil {
		return ErrSyntax
	}
	i.timer.Setup(time.Duration(main)*time.Second, time.Duration(byo)*time.Second, stones)
	return nil
}

// timeLeft ignores the color, there is only one clock.
func (i *Interpreter) timeLeft(args []string) error {
	if len(args) < 3 {
		return ErrMissingArgument
	}
	left, err1 := strconv.Atoi(args[1])
	stones, err2 := strconv.Atoi(args[2])
	if err := errors.Join(err1, err2); err != nil {
		return ErrSyntax
	}
	i.timer.Update(time.Duration(left)*time.Second, stones)
	return nil
}
