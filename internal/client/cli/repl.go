package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Sort(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Filters(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	SelectAll(ctx context.Context, checked bool) error
	Add(ctx context.Context) error
	Delete(ctx context.Context) error
	Refresh(ctx context.Context) error
	Welcome(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  (l)ist                              show the user table
  sort <id|name|zipcode> [asc|desc]   sort; without an order the column toggles
  filter <name|email|phone> [value]   set a filter, no value clears it
  filters                             show typed and applied filters
  select <id> [id...]                 toggle selection of users
  selectall | unselectall             select or clear every listed user
  add                                 create a user
  delete                              delete the selected users
  refresh                             reload the list
  welcome [reset]                     show the welcome screen, or show it again next start
  exit | quit                         leave the program`

// runREPL starts the read–eval–print loop of the userdesk CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that need arguments print their
// usage when called without them. The loop exits on EOF, when ctx is done,
// or when the user types "exit" or "quit". Ctrl-C only clears the line.
//
// The prompt shows the current status (from statusFn). Help, usage and
// other REPL messages go to out, the same writer the commands print to.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in LineReader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		line, err := in.ReadLine(fmt.Sprintf("ud %s> ", statusFn()))
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(out, "Use 'exit' or 'quit' to exit the program.")
				continue
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "sort":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: sort <id|name|zipcode> [asc|desc]")
				continue
			}
			_ = a.Sort(ctx, args)

		case "filter":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: filter <name|email|phone> [value]")
				continue
			}
			_ = a.Filter(ctx, args)

		case "filters":
			_ = a.Filters(ctx)

		case "select":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: select <id> [id...]")
				continue
			}
			_ = a.Select(ctx, args)

		case "selectall":
			_ = a.SelectAll(ctx, true)

		case "unselectall":
			_ = a.SelectAll(ctx, false)

		case "add":
			_ = a.Add(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "welcome":
			_ = a.Welcome(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
