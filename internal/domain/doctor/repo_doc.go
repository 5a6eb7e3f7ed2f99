package doctor

import (
	"context"

	"github.com/medbook/medbook/internal/platform/docstore"
)

type docRepo struct {
	store *docstore.Store
}

func NewDocRepo(store *docstore.Store) Repository {
	return &docRepo{store: store}
}

func (r *docRepo) Directory(ctx context.Context) (*docstore.Directory, error) {
	var out *docstore.Directory
	err := r.store.View(ctx, func(doc *docstore.Document) error {
		if doc.Doctors == nil {
			out = r.store.Defaults().Doctors()
			return nil
		}
		out = doc.Doctors.Clone()
		return nil
	})
	return out, err
}

func (r *docRepo) Update(ctx context.Context, fn func(dir *docstore.Directory) error) error {
	return r.store.Update(ctx, func(doc *docstore.Document) error {
		if doc.Doctors == nil {
			doc.Doctors = r.store.Defaults().Doctors()
		}
		return fn(doc.Doctors)
	})
}
