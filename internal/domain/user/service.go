package user

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

var innPattern = regexp.MustCompile(`^\d{14}$`)

var errBadCredentials = apperr.Auth("Invalid INN or password")

// Service handles patient accounts. Passwords are kept and compared as plain
// text; there are no sessions.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*docstore.PublicUser, error) {
	if req.INN == "" || req.Password == "" || req.Name == "" || req.Phone == "" {
		return nil, apperr.Validation("All fields are required")
	}
	if !innPattern.MatchString(req.INN) {
		return nil, apperr.Validation("INN must contain 14 digits")
	}

	now := s.now()
	u := &docstore.User{
		INN:       req.INN,
		Password:  req.Password,
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: docstore.Timestamp(now),
	}
	if err := s.repo.Create(ctx, u, now); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", u.ID).Str("inn", u.INN).Msg("user registered")
	return u.Public(), nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*docstore.PublicUser, error) {
	if req.INN == "" || req.Password == "" {
		return nil, apperr.Validation("INN and password are required")
	}

	u, err := s.repo.GetByINN(ctx, req.INN)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.Password != req.Password {
		return nil, errBadCredentials
	}

	s.logger.Info().Str("id", u.ID).Msg("user logged in")
	return u.Public(), nil
}

func (s *Service) GetByINN(ctx context.Context, inn string) (*docstore.PublicUser, error) {
	u, err := s.repo.GetByINN(ctx, inn)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *Service) Patch(ctx context.Context, inn string, p Patch) (*docstore.PublicUser, error) {
	u, err := s.repo.Update(ctx, inn, p.apply)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", u.ID).Msg("user updated")
	return u.Public(), nil
}
