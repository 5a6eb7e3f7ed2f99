package user

import (
	"context"
	"time"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

var (
	errNotFound  = apperr.NotFound("User not found")
	errDuplicate = apperr.Conflict("A user with this INN already exists")
)

type docRepo struct {
	store *docstore.Store
}

func NewDocRepo(store *docstore.Store) Repository {
	return &docRepo{store: store}
}

func (r *docRepo) Create(ctx context.Context, u *docstore.User, now time.Time) error {
	return r.store.Update(ctx, func(doc *docstore.Document) error {
		if indexByINN(doc.Users, u.INN) >= 0 {
			return errDuplicate
		}
		u.ID = docstore.NewID(now, func(id string) bool {
			for _, existing := range doc.Users {
				if existing.ID == id {
					return true
				}
			}
			return false
		})
		stored := *u
		doc.Users = append(doc.Users, &stored)
		return nil
	})
}

func (r *docRepo) GetByINN(ctx context.Context, inn string) (*docstore.User, error) {
	var out *docstore.User
	err := r.store.View(ctx, func(doc *docstore.Document) error {
		i := indexByINN(doc.Users, inn)
		if i < 0 {
			return errNotFound
		}
		u := *doc.Users[i]
		out = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *docRepo) Update(ctx context.Context, inn string, fn func(u *docstore.User)) (*docstore.User, error) {
	var out *docstore.User
	err := r.store.Update(ctx, func(doc *docstore.Document) error {
		i := indexByINN(doc.Users, inn)
		if i < 0 {
			return errNotFound
		}
		fn(doc.Users[i])
		u := *doc.Users[i]
		out = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func indexByINN(users []*docstore.User, inn string) int {
	for i, u := range users {
		if u.INN == inn {
			return i
		}
	}
	return -1
}
