package user

import (
	"context"
	"time"

	"github.com/medbook/medbook/internal/platform/docstore"
)

type Repository interface {
	// Create stores u under a fresh id. It fails with a conflict when the INN
	// is already registered.
	Create(ctx context.Context, u *docstore.User, now time.Time) error
	GetByINN(ctx context.Context, inn string) (*docstore.User, error)
	Update(ctx context.Context, inn string, fn func(u *docstore.User)) (*docstore.User, error)
}
