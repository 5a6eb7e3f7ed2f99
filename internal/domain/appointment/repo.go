package appointment

import (
	"context"
	"time"

	"github.com/medbook/medbook/internal/platform/docstore"
)

// Repository persists appointments. Returned records are copies.
type Repository interface {
	List(ctx context.Context) ([]*docstore.Appointment, error)
	// Create assigns a.ID from now and appends a.
	Create(ctx context.Context, a *docstore.Appointment, now time.Time) error
	// Update applies fn to the stored record with the given id and saves.
	Update(ctx context.Context, id string, fn func(a *docstore.Appointment) error) (*docstore.Appointment, error)
	Delete(ctx context.Context, id string) error
}
