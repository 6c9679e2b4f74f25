package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// List waits for a pending filter to apply and prints the table.
func (a *App) List(ctx context.Context) error {
	settleCtx, cancel := context.WithTimeout(ctx, a.settleTimeout())
	defer cancel()
	if err := a.users.Settle(settleCtx); err != nil {
		a.log.Warn(ctx, "list before the user list settled", "error", err)
	}

	renderTable(a.out, a.users.Snapshot(), a.width())
	return nil
}

// Sort sets the sort from "field [asc|desc]". Without an order it behaves
// like clicking the column header.
func (a *App) Sort(ctx context.Context, args []string) error {
	spec, err := parseSortArgs(args)
	if err != nil {
		a.notifyErr("%v", err)
		return err
	}

	if spec.explicit {
		err = a.users.SetSort(ctx, spec.field, spec.order)
	} else {
		err = a.users.ToggleSort(ctx, spec.field)
	}
	if err != nil {
		a.notifyErr("%v", err)
		return err
	}

	fmt.Fprintf(a.out, "sorted by %s\n", a.users.Snapshot().Sort)
	return a.List(ctx)
}

// Filter sets one filter field. Everything after the field name is the
// value, so names with spaces need no quoting.
func (a *App) Filter(ctx context.Context, args []string) error {
	field, err := models.ParseFilterField(args[0])
	if err != nil {
		a.notifyErr("%v", err)
		return err
	}
	value := strings.Join(args[1:], " ")

	if err := a.users.SetFilter(field, value); err != nil {
		a.notifyErr("%v", err)
		return err
	}
	fmt.Fprintf(a.out, "filter: %s\n", a.users.Snapshot().Filter)
	return nil
}

// Filters shows the filter as typed next to the one the list was loaded with.
func (a *App) Filters(ctx context.Context) error {
	st := a.users.Snapshot()
	pending := ""
	if a.users.FilterPending() {
		pending = " (pending)"
	}
	fmt.Fprintf(a.out, "typed:   %s%s\n", st.Filter, pending)
	fmt.Fprintf(a.out, "applied: %s\n", st.AppliedFilter)
	return nil
}

// Select toggles each id. Ids that do not parse are reported and skipped.
func (a *App) Select(ctx context.Context, args []string) error {
	var bad []string
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			bad = append(bad, arg)
			continue
		}
		a.users.ToggleSelect(id)
	}
	if len(bad) > 0 {
		a.notifyErr("invalid id: %s", strings.Join(bad, ", "))
	}

	fmt.Fprintf(a.out, "%d selected\n", len(a.users.Snapshot().Selected))
	if len(bad) > 0 {
		return fmt.Errorf("invalid ids: %v", bad)
	}
	return nil
}

func (a *App) SelectAll(ctx context.Context, checked bool) error {
	a.users.SelectAll(checked)
	fmt.Fprintf(a.out, "%d selected\n", len(a.users.Snapshot().Selected))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	a.users.Refresh(ctx)
	return a.List(ctx)
}
