// Package notes implements note CRUD for an authenticated owner.
package notes

import (
	"context"
	"errors"
	"strings"

	"github.com/ahsanfayaz52/noteservice/internal/models"
	"github.com/ahsanfayaz52/noteservice/internal/store"
	"github.com/ahsanfayaz52/noteservice/internal/validate"
)

// Scope is the set of owner-restricted note operations the service needs.
type Scope interface {
	List(ctx context.Context) ([]models.Note, error)
	Get(ctx context.Context, id int64) (models.Note, error)
	Create(ctx context.Context, title, content string) (models.Note, error)
	Update(ctx context.Context, id int64, title, content string) (models.Note, error)
	Delete(ctx context.Context, id int64) (models.Note, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Scoper returns the Scope of a single owner.
type Scoper func(ownerID int64) Scope

// StoreScoper adapts a store.NoteStore to a Scoper.
func StoreScoper(s *store.NoteStore) Scoper {
	return func(ownerID int64) Scope { return s.Scoped(ownerID) }
}

type Service struct {
	scoped Scoper
}

func NewService(scoped Scoper) *Service {
	return &Service{scoped: scoped}
}

func validateNote(title, content string) error {
	verr := &validate.ValidationError{}
	if strings.TrimSpace(title) == "" {
		verr.Add("title", "Title is required")
	}
	if strings.TrimSpace(content) == "" {
		verr.Add("content", "Content is required")
	}
	return verr.Err()
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Create(ctx context.Context, owner int64, title, content string) (models.Note, error) {
	if err := validateNote(title, content); err != nil {
		return models.Note{}, err
	}
	return s.scoped(owner).Create(ctx, title, content)
}

func (s *Service) FindAll(ctx context.Context, owner int64) ([]models.Note, error) {
	list, err := s.scoped(owner).List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Note{}
	}
	return list, nil
}

func (s *Service) FindOne(ctx context.Context, owner, id int64) (models.Note, error) {
	n, err := s.scoped(owner).Get(ctx, id)
	return n, notFound(err)
}

// Update replaces both title and content of the note.
func (s *Service) Update(ctx context.Context, owner, id int64, title, content string) (models.Note, error) {
	if err := validateNote(title, content); err != nil {
		return models.Note{}, err
	}
	n, err := s.scoped(owner).Update(ctx, id, title, content)
	return n, notFound(err)
}

func (s *Service) Remove(ctx context.Context, owner, id int64) (models.Note, error) {
	n, err := s.scoped(owner).Delete(ctx, id)
	return n, notFound(err)
}

// RemoveAll deletes every note of owner and returns how many were removed.
func (s *Service) RemoveAll(ctx context.Context, owner int64) (int64, error) {
	return s.scoped(owner).DeleteAll(ctx)
}
