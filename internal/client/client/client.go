package client

import (
	"context"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// Store is the remote users collection.
type Store interface {
	List(ctx context.Context, filter models.Filter, sort models.Sort) ([]models.User, error)
	Create(ctx context.Context, u models.NewUser) (models.User, error)
	Delete(ctx context.Context, id int64) error
	// DeleteMany removes every id concurrently and succeeds only if all
	// deletions succeed. Deletions that did succeed are not rolled back.
	DeleteMany(ctx context.Context, ids []int64) error
}
