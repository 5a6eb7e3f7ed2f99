package support

import (
	"context"
	"time"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

var errNotFound = apperr.NotFound("Ticket not found")

type docRepo struct {
	store *docstore.Store
}

func NewDocRepo(store *docstore.Store) Repository {
	return &docRepo{store: store}
}

func (r *docRepo) List(ctx context.Context) ([]*docstore.SupportTicket, error) {
	var out []*docstore.SupportTicket
	err := r.store.View(ctx, func(doc *docstore.Document) error {
		out = make([]*docstore.SupportTicket, 0, len(doc.SupportTickets))
		for _, t := range doc.SupportTickets {
			out = append(out, t.Clone())
		}
		return nil
	})
	return out, err
}

// Create stores t under a fresh id. The seed message, if any, shares the
// ticket's id.
func (r *docRepo) Create(ctx context.Context, t *docstore.SupportTicket, now time.Time) error {
	return r.store.Update(ctx, func(doc *docstore.Document) error {
		t.ID = docstore.NewID(now, func(id string) bool {
			return indexOf(doc.SupportTickets, id) >= 0
		})
		if len(t.Messages) > 0 {
			t.Messages[0].ID = t.ID
		}
		doc.SupportTickets = append(doc.SupportTickets, t.Clone())
		return nil
	})
}

func (r *docRepo) Update(ctx context.Context, id string, fn func(t *docstore.SupportTicket) error) (*docstore.SupportTicket, error) {
	var out *docstore.SupportTicket
	err := r.store.Update(ctx, func(doc *docstore.Document) error {
		i := indexOf(doc.SupportTickets, id)
		if i < 0 {
			return errNotFound
		}
		if err := fn(doc.SupportTickets[i]); err != nil {
			return err
		}
		out = doc.SupportTickets[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *docRepo) Delete(ctx context.Context, id string) (*docstore.SupportTicket, error) {
	var out *docstore.SupportTicket
	err := r.store.Update(ctx, func(doc *docstore.Document) error {
		i := indexOf(doc.SupportTickets, id)
		if i < 0 {
			return errNotFound
		}
		out = doc.SupportTickets[i]
		doc.SupportTickets = append(doc.SupportTickets[:i], doc.SupportTickets[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func indexOf(list []*docstore.SupportTicket, id string) int {
	for i, t := range list {
		if t.ID == id {
			return i
		}
	}
	return -1
}
