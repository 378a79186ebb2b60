package service

import (
	"errors"

	"catalog-service/internal/model"
	"catalog-service/internal/repository"

	"go.uber.org/zap"
)

// PresentationDraft is the payload for creating a presentation.
type PresentationDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PresentationService exposes the read side of presentations plus create.
// Deletion stays unexposed: products may still reference the row.
type PresentationService struct {
	repo repository.PresentationRepository
	log  *zap.Logger
}

func NewPresentationService(repo repository.PresentationRepository, log *zap.Logger) *PresentationService {
	return &PresentationService{repo: repo, log: log}
}

func (s *PresentationService) List() ([]model.Presentation, error) {
	presentations, err := s.repo.FindAll()
	if err != nil {
		s.log.Error("presentation list failure", zap.Error(err))
		return nil, &PersistenceError{cause: err}
	}
	return presentations, nil
}

func (s *PresentationService) Get(id uint) (*model.Presentation, error) {
	presentation, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("presentation get failure", zap.Uint("id", id), zap.Error(err))
		return nil, &PersistenceError{cause: err}
	}
	return presentation, nil
}

func (s *PresentationService) Create(draft PresentationDraft) (*model.Presentation, error) {
	if draft.Name == "" {
		return nil, &ValidationError{Messages: []string{"name is required"}}
	}
	presentation := model.Presentation{Name: draft.Name, Description: draft.Description}
	if err := s.repo.Save(&presentation); err != nil {
		s.log.Error("presentation create failure", zap.Error(err))
		return nil, &PersistenceError{cause: err}
	}
	return &presentation, nil
}
