package support

import (
	"context"
	"time"

	"github.com/medbook/medbook/internal/platform/docstore"
)

type Repository interface {
	List(ctx context.Context) ([]*docstore.SupportTicket, error)
	// Create assigns a fresh id to t and stores it.
	Create(ctx context.Context, t *docstore.SupportTicket, now time.Time) error
	Update(ctx context.Context, id string, fn func(t *docstore.SupportTicket) error) (*docstore.SupportTicket, error)
	Delete(ctx context.Context, id string) (*docstore.SupportTicket, error)
}
