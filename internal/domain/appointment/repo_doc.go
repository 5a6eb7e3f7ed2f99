package appointment

import (
	"context"
	"time"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

var errNotFound = apperr.NotFound("Appointment not found")

type docRepo struct {
	store *docstore.Store
}

func NewDocRepo(store *docstore.Store) Repository {
	return &docRepo{store: store}
}

func (r *docRepo) List(ctx context.Context) ([]*docstore.Appointment, error) {
	var out []*docstore.Appointment
	err := r.store.View(ctx, func(doc *docstore.Document) error {
		out = make([]*docstore.Appointment, 0, len(doc.Appointments))
		for _, a := range doc.Appointments {
			out = append(out, a.Clone())
		}
		return nil
	})
	return out, err
}

func (r *docRepo) Create(ctx context.Context, a *docstore.Appointment, now time.Time) error {
	return r.store.Update(ctx, func(doc *docstore.Document) error {
		a.ID = docstore.NewID(now, func(id string) bool {
			return indexOf(doc.Appointments, id) >= 0
		})
		doc.Appointments = append(doc.Appointments, a.Clone())
		return nil
	})
}

func (r *docRepo) Update(ctx context.Context, id string, fn func(a *docstore.Appointment) error) (*docstore.Appointment, error) {
	var out *docstore.Appointment
	err := r.store.Update(ctx, func(doc *docstore.Document) error {
		i := indexOf(doc.Appointments, id)
		if i < 0 {
			return errNotFound
		}
		if err := fn(doc.Appointments[i]); err != nil {
			return err
		}
		out = doc.Appointments[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, func(doc *docstore.Document) error {
		i := indexOf(doc.Appointments, id)
		if i < 0 {
			return errNotFound
		}
		doc.Appointments = append(doc.Appointments[:i], doc.Appointments[i+1:]...)
		return nil
	})
}

func indexOf(list []*docstore.Appointment, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}
