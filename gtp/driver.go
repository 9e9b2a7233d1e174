package gtp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Serve answers commands from r on w until quit or the end of the input.
func Serve(interpreter *Interpreter, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)
	for scanner.Scan() {
		line := Preprocess(scanner.Text())
		id, line := splitID(line)
		log.Debug().Msgf("<< %s", scanner.Text())

		response, err := interpreter.Read(line)
		switch {
		case errors.Is(err, ErrEmptyCommand):
			continue
		case err != nil:
			log.Debug().Err(err).Msg("command failed")
			fmt.Fprintf(out, "?%s %s\n\n", id, err)
		default:
			fmt.Fprintf(out, "=%s %s\n\n", id, response)
		}
		if err := out.Flush(); err != nil {
			return err
		}
		if interpreter.Done() {
			return nil
		}
	}
	return scanner.Err()
}

// splitID separates a leading numeric command id.
func splitID(line string) (string, string) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields[0]) == 0 || strings.Trim(fields[0], "0123456789") != "" {
		return "", line
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.TrimSpace(fields[1])
}
