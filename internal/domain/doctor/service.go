package doctor

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/docstore"
)

var (
	errSpecialtyNotFound = apperr.NotFound("Specialty not found")
	errDoctorNotFound    = apperr.NotFound("Doctor not found")
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) (*docstore.Directory, error) {
	return s.repo.Directory(ctx)
}

// Add appends a doctor to specialty, creating the specialty if needed. The
// new id is one more than the highest id in the whole directory.
func (s *Service) Add(ctx context.Context, specialty string, req AddRequest) (*docstore.Doctor, error) {
	if req.Name == "" || req.Experience == "" {
		return nil, apperr.Validation("Doctor name and experience are required")
	}

	var added docstore.Doctor
	err := s.repo.Update(ctx, func(dir *docstore.Directory) error {
		docs, _ := dir.Doctors(specialty)
		added = docstore.Doctor{ID: dir.MaxID() + 1, Name: req.Name, Experience: req.Experience}
		dir.Set(specialty, append(docs, added))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("id", added.ID).Str("specialty", specialty).Str("name", added.Name).Msg("doctor added")
	return &added, nil
}

func (s *Service) Patch(ctx context.Context, specialty, rawID string, p Patch) (*docstore.Doctor, error) {
	var updated docstore.Doctor
	err := s.repo.Update(ctx, func(dir *docstore.Directory) error {
		docs, i, err := locate(dir, specialty, rawID)
		if err != nil {
			return err
		}
		if p.Name != nil && *p.Name != "" {
			docs[i].Name = *p.Name
		}
		if p.Experience != nil && *p.Experience != "" {
			docs[i].Experience = *p.Experience
		}
		dir.Set(specialty, docs)
		updated = docs[i]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("id", updated.ID).Str("specialty", specialty).Msg("doctor updated")
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, specialty, rawID string) error {
	err := s.repo.Update(ctx, func(dir *docstore.Directory) error {
		docs, i, err := locate(dir, specialty, rawID)
		if err != nil {
			return err
		}
		dir.Set(specialty, append(docs[:i], docs[i+1:]...))
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("id", rawID).Str("specialty", specialty).Msg("doctor deleted")
	return nil
}

// locate finds the doctor with the path id inside specialty. A non-numeric
// id never matches.
func locate(dir *docstore.Directory, specialty, rawID string) ([]docstore.Doctor, int, error) {
	docs, ok := dir.Doctors(specialty)
	if !ok {
		return nil, -1, errSpecialtyNotFound
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, -1, errDoctorNotFound
	}
	for i, d := range docs {
		if d.ID == id {
			return docs, i, nil
		}
	}
	return nil, -1, errDoctorNotFound
}
