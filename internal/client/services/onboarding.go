package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/userdesk/internal/dbx"
)

// Metadata keys owned by Onboarding.
const (
	KeyHasVisited   = "hasVisited"
	KeyFirstVisitAt = "firstVisitAt"
)

// Onboarding decides whether the welcome screen is shown automatically.
// It is shown on the first run only; the flag lives in the local state
// database and is written in the same transaction that reads it.
type Onboarding struct {
	tx      dbx.TxRunner
	newRepo func(dbx.DBTX) metadata.Repository
	now     func() time.Time
}

// NewOnboarding builds an Onboarding over runner, using newRepo to bind a
// metadata repository to each transaction.
func NewOnboarding(runner dbx.TxRunner, newRepo func(dbx.DBTX) metadata.Repository) *Onboarding {
	return &Onboarding{tx: runner, newRepo: newRepo, now: time.Now}
}

// NewSQLiteOnboarding is NewOnboarding wired to the SQLite metadata table.
func NewSQLiteOnboarding(runner dbx.TxRunner) *Onboarding {
	return NewOnboarding(runner, func(db dbx.DBTX) metadata.Repository {
		return metadata.NewSQLiteRepository(db)
	})
}

// CheckFirstRun reports whether this is the first run and, if so, records
// that the user has now visited.
func (o *Onboarding) CheckFirstRun(ctx context.Context) (bool, error) {
	first := false
	err := o.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.newRepo(tx)

		v, err := repo.Get(ctx, KeyHasVisited)
		if err != nil {
			return err
		}
		if v != nil {
			return nil
		}

		first = true
		if err := repo.Set(ctx, KeyHasVisited, []byte("true")); err != nil {
			return err
		}
		return repo.Set(ctx, KeyFirstVisitAt, []byte(o.now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return false, fmt.Errorf("check first run: %w", err)
	}
	return first, nil
}

// FirstVisit returns when the flag was first written, or the zero time.
func (o *Onboarding) FirstVisit(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := o.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		v, err := o.newRepo(tx).Get(ctx, KeyFirstVisitAt)
		if err != nil || v == nil {
			return err
		}
		at, err = time.Parse(time.RFC3339, string(v))
		return err
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("read first visit: %w", err)
	}
	return at, nil
}

// Reset forgets the visit so the next run shows the welcome screen again.
func (o *Onboarding) Reset(ctx context.Context) error {
	err := o.tx.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.newRepo(tx)
		if err := repo.Delete(ctx, KeyHasVisited); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyFirstVisitAt)
	})
	if err != nil {
		return fmt.Errorf("reset onboarding: %w", err)
	}
	return nil
}
