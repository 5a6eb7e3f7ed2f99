package docstore

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/apperr"
)

// Store runs load/mutate/save cycles against a Backend.
//
// All cycles of one Store are serialized by a single mutex, so two requests
// in the same process cannot lose each other's update. Processes that share
// a backend are not coordinated.
type Store struct {
	backend  Backend
	defaults DefaultsProvider
	logger   zerolog.Logger
	mu       sync.Mutex
}

func New(backend Backend, defaults DefaultsProvider, logger zerolog.Logger) *Store {
	if defaults == nil {
		defaults = BuiltinDefaults{}
	}
	return &Store{
		backend:  backend,
		defaults: defaults,
		logger:   logger.With().Str("component", "docstore").Str("backend", backend.Name()).Logger(),
	}
}

// Backend exposes the underlying backend for health checks.
func (s *Store) Backend() Backend { return s.backend }

// Defaults returns the provider used to seed the doctor directory.
func (s *Store) Defaults() DefaultsProvider { return s.defaults }

// Load reads the document. It never fails: a missing document is created
// with empty collections and the default directory, and an unreadable one is
// replaced in memory by an empty fallback that still serves requests.
func (s *Store) Load(ctx context.Context) *Document {
	doc, _ := s.load(ctx)
	return doc
}

// load is Load that also returns the read or parse error behind a fallback.
func (s *Store) load(ctx context.Context) (*Document, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotExist) {
		doc := NewDocument()
		doc.Doctors = s.defaults.Doctors()
		if err := s.Save(ctx, doc); err != nil {
			s.logger.Error().Err(err).Msg("initialize document")
		} else {
			s.logger.Info().Msg("initialized empty document")
		}
		return doc, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("read document, serving fallback")
		return s.fallback(), err
	}

	doc, err := Decode(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("parse document, serving fallback")
		return s.fallback(), err
	}
	return doc, nil
}

func (s *Store) fallback() *Document {
	doc := NewDocument()
	doc.Doctors = s.defaults.Doctors()
	return doc
}

// Save overwrites the stored document. A failure means the mutation was not
// applied and is reported as a storage error.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return apperr.Storage("failed to save data", err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return apperr.Storage("failed to save data", err)
	}
	return nil
}

// Update loads the document, applies fn and saves the result. When fn
// returns an error nothing is written and the error is returned unchanged.
// A document that could not be read or parsed is never overwritten: fn is not
// called and a storage error is returned.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return apperr.Storage("failed to load data", err)
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.Save(ctx, doc)
}

// Replace overwrites the stored document with doc, whatever it holds now.
func (s *Store) Replace(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Save(ctx, doc)
}

// View loads the document and hands it to fn without saving. fn must not
// retain references to the document after it returns.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.Load(ctx))
}
