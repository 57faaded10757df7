package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingArgument is returned when a positional argument is absent.
	ErrMissingArgument = errors.New("missing argument")
	// ErrNotNumber is returned when an argument does not parse as an integer.
	ErrNotNumber = errors.New("not a number")
	// ErrNotPosition is returned when an argument is a number below 1.
	ErrNotPosition = errors.New("not a list position")
)

// ArgError names the argument that failed to parse.
type ArgError struct {
	Arg string
	Err error
}

func (e *ArgError) Error() string { return fmt.Sprintf("%q: %v", e.Arg, e.Err) }

func (e *ArgError) Unwrap() error { return e.Err }

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command, with inner spacing kept for
	// free-text arguments such as dossier queries and names.
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Precondition: line should be trimmed of leading/trailing whitespace.
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	cmd := strings.ToLower(line[:spaceIdx])
	rest := line[spaceIdx+1:]
	rest = strings.TrimSpace(rest)

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
	}
}

// Position reads argument i as a 1-based list position as shown to the
// player and returns it as a 0-based index.
//
// Postcondition: Returns ErrMissingArgument when there is no argument i, or
// an *ArgError wrapping ErrNotNumber or ErrNotPosition.
func (r ParseResult) Position(i int) (int, error) {
	if i < 0 || i >= len(r.Args) {
		return 0, ErrMissingArgument
	}
	n, err := strconv.Atoi(r.Args[i])
	if err != nil {
		return 0, &ArgError{Arg: r.Args[i], Err: ErrNotNumber}
	}
	if n < 1 {
		return 0, &ArgError{Arg: r.Args[i], Err: ErrNotPosition}
	}
	return n - 1, nil
}

// Ints reads every argument as an integer.
//
// Postcondition: Returns an *ArgError naming the first argument that is not
// a number.
func (r ParseResult) Ints() ([]int, error) {
	out := make([]int, 0, len(r.Args))
	for _, a := range r.Args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, &ArgError{Arg: a, Err: ErrNotNumber}
		}
		out = append(out, n)
	}
	return out, nil
}
