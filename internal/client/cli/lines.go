package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// LineReader reads one line of user input after showing prompt.
// Implementations return io.EOF when input ends and readline.ErrInterrupt
// on Ctrl-C.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type bufioLineReader struct {
	r *bufio.Reader
	w io.Writer
}

// NewBufioLineReader reads lines from r and writes prompts to w. It is used
// for piped input and in tests.
func NewBufioLineReader(r io.Reader, w io.Writer) LineReader {
	return &bufioLineReader{r: bufio.NewReader(r), w: w}
}

func (b *bufioLineReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := fmt.Fprint(b.w, prompt); err != nil {
			return "", err
		}
	}
	line, err := b.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufioLineReader) Close() error { return nil }

type readlineLineReader struct {
	rl *readline.Instance
}

func (r *readlineLineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *readlineLineReader) Close() error {
	return r.rl.Close()
}

// completer offers command names and the fixed arguments of sort and filter.
func completer() *readline.PrefixCompleter {
	sortFields := make([]readline.PrefixCompleterInterface, 0, len(models.SortFields))
	for _, f := range models.SortFields {
		sortFields = append(sortFields, readline.PcItem(string(f),
			readline.PcItem(string(models.OrderAsc)),
			readline.PcItem(string(models.OrderDesc)),
		))
	}
	filterFields := make([]readline.PrefixCompleterInterface, 0, len(models.FilterFields))
	for _, f := range models.FilterFields {
		filterFields = append(filterFields, readline.PcItem(string(f)))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("sort", sortFields...),
		readline.PcItem("filter", filterFields...),
		readline.PcItem("filters"),
		readline.PcItem("select"),
		readline.PcItem("selectall"),
		readline.PcItem("unselectall"),
		readline.PcItem("add"),
		readline.PcItem("delete"),
		readline.PcItem("refresh"),
		readline.PcItem("welcome", readline.PcItem("reset")),
		readline.PcItem("exit"),
	)
}

// newTerminal picks readline with history for an interactive stdin and
// plain buffered reading otherwise. The returned writer is where user
// output goes; readline's writer keeps the prompt intact around
// asynchronous notifications.
func newTerminal(historyFile string) (LineReader, io.Writer, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return NewBufioLineReader(os.Stdin, os.Stdout), os.Stdout, nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init readline: %w", err)
	}
	return &readlineLineReader{rl: rl}, rl.Stdout(), nil
}

// terminalWidth returns the width of stdout, or defaultWidth when stdout
// is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
