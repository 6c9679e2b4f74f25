// Package cli provides the interactive userdesk command-line client.
//
// It wires configuration, the local state database, the REST user store and
// the user state coordinator behind a REPL. On the first run a welcome
// screen is shown; afterwards only the 'welcome' command brings it back.
//
// Key features:
//   - List users as a terminal-width table with loading, error and empty states
//   - Sort by id, name or zipcode; filter by name, email or phone (debounced)
//   - Select users one by one or all at once, and delete them in bulk
//   - Add users through a validated form
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
