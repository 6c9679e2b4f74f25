package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
)

// Delete asks for confirmation and deletes the selected users. On failure
// the confirmation is offered again; after a partial failure only the ids
// that could not be deleted are retried.
func (a *App) Delete(ctx context.Context) error {
	ids := a.users.Snapshot().Selected
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "nothing selected")
		return nil
	}
	prompt := fmt.Sprintf("Delete %d selected user(s)?", len(ids))

	for {
		ok, err := GetConfirmation(a.in, prompt, a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "cancelled")
			return nil
		}

		err = a.users.DeleteUsers(ctx, ids)
		if err == nil {
			a.notifyOK("deleted %d user(s)", len(ids))
			return nil
		}

		var de *client.DeleteError
		if errors.As(err, &de) && len(de.Failed) > 0 {
			a.notifyErr("could not delete %d of %d user(s): ids %v", len(de.Failed), de.Requested, de.IDs())
			ids = de.IDs()
			prompt = fmt.Sprintf("Retry deleting %d user(s)?", len(ids))
			continue
		}
		a.notifyErr("failed to delete users: %v", err)
	}
}
