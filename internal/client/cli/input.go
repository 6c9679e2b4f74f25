package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("cancelled")

// GetSimpleText prints a prompt to w and reads a single line of input from in.
// Surrounding whitespace is trimmed. Ctrl-C yields ErrCancelled.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(in LineReader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintln(w, prompt); err != nil {
		return "", err
	}
	line, err := in.ReadLine("> ")
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetConfirmation asks a yes/no question. Only "y" and "yes" (any case)
// confirm; an empty answer means no.
func GetConfirmation(in LineReader, prompt string, w io.Writer) (bool, error) {
	answer, err := GetSimpleText(in, prompt+" [y/N]", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
