package cli

import (
	"context"
	"fmt"
	"time"
)

const welcomeBanner = `
  ┌────────────────────────────────────────────┐
  │                                            │
  │            Welcome to userdesk             │
  │                                            │
  │   Browse, filter, sort, add and delete     │
  │   users of the remote directory.           │
  │                                            │
  │   Type 'help' to see what you can do.      │
  │                                            │
  └────────────────────────────────────────────┘
`

// Welcome prints the welcome screen together with the date of the first
// visit. "welcome reset" forgets the visit so the screen opens by itself on
// the next start.
func (a *App) Welcome(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "reset" {
			fmt.Fprintln(a.out, "Usage: welcome [reset]")
			return nil
		}
		if err := a.onboarding.Reset(ctx); err != nil {
			a.notifyErr("could not reset welcome state: %v", err)
			return err
		}
		a.notifyOK("welcome screen will open on the next start")
		return nil
	}

	fmt.Fprint(a.out, welcomeBanner)

	at, err := a.onboarding.FirstVisit(ctx)
	if err != nil {
		a.log.Warn(ctx, "first visit unavailable", "error", err)
		return nil
	}
	if !at.IsZero() {
		fmt.Fprintf(a.out, "  first visit: %s\n", at.Local().Format(time.DateTime))
	}
	return nil
}

func (a *App) showWelcomeOnFirstRun(ctx context.Context) {
	first, err := a.onboarding.CheckFirstRun(ctx)
	if err != nil {
		a.log.Warn(ctx, "onboarding state unavailable", "error", err)
		return
	}
	if first {
		fmt.Fprint(a.out, welcomeBanner)
	}
}
