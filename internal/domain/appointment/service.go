package appointment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/docstore"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) ListAll(ctx context.Context) ([]*docstore.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPhone(ctx context.Context, phone string) ([]*docstore.Appointment, error) {
	return s.filter(ctx, func(a *docstore.Appointment) bool { return a.Phone == phone })
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*docstore.Appointment, error) {
	return s.filter(ctx, func(a *docstore.Appointment) bool { return a.UserID == userID })
}

func (s *Service) filter(ctx context.Context, keep func(a *docstore.Appointment) bool) ([]*docstore.Appointment, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*docstore.Appointment, 0)
	for _, a := range all {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Create books a new appointment from the posted fields. The status always
// starts as pending.
func (s *Service) Create(ctx context.Context, fields map[string]json.RawMessage) (*docstore.Appointment, error) {
	a, err := fromFields(fields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a.CreatedAt = docstore.Timestamp(now)
	a.Status = docstore.StatusPending
	if err := s.repo.Create(ctx, a, now); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", a.ID).Str("name", a.Name).Str("doctor", a.Doctor).Msg("appointment created")
	return a, nil
}

func (s *Service) Patch(ctx context.Context, id string, p Patch) (*docstore.Appointment, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	updatedAt := docstore.Timestamp(s.now())
	a, err := s.repo.Update(ctx, id, func(a *docstore.Appointment) error {
		p.apply(a)
		a.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", a.ID).Str("status", a.Status).Msg("appointment updated")
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("appointment deleted")
	return nil
}

// CheckAvailability reports whether no active appointment holds the slot.
func (s *Service) CheckAvailability(ctx context.Context, doctor, date, tm string) (bool, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range all {
		if a.SlotTaken(doctor, date, tm) {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{Total: len(all), BySpecialty: make(map[string]int)}
	for _, a := range all {
		switch a.Status {
		case docstore.StatusPending:
			st.Pending++
		case docstore.StatusConfirmed:
			st.Confirmed++
		case docstore.StatusCancelled:
			st.Cancelled++
		case docstore.StatusCompleted:
			st.Completed++
		}

		specialty := a.SpecialtyName
		if specialty == "" {
			specialty = UnspecifiedSpecialty
		}
		st.BySpecialty[specialty]++
	}
	return st, nil
}
