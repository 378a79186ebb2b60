package repository

import (
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"gorm.io/gorm"
)

// PresentationRepository is the persistence contract for presentations.
// Deleting a presentation is not exposed.
type PresentationRepository interface {
	FindAll() ([]model.Presentation, error)
	FindByID(id uint) (*model.Presentation, error)
	Save(p *model.Presentation) error
}

type gormPresentationRepository struct {
	db *gorm.DB
}

// NewPresentationRepository returns a gorm-backed PresentationRepository.
func NewPresentationRepository(db *gorm.DB) PresentationRepository {
	return &gormPresentationRepository{db: db}
}

func (r *gormPresentationRepository) FindAll() ([]model.Presentation, error) {
	defer prometheus.TrackDBOperation("presentation_list")(time.Now())

	var presentations []model.Presentation
	if result := r.db.Order("name ASC, id ASC").Find(&presentations); result.Error != nil {
		return nil, fmt.Errorf("list presentations: %w", result.Error)
	}
	return presentations, nil
}

func (r *gormPresentationRepository) FindByID(id uint) (*model.Presentation, error) {
	defer prometheus.TrackDBOperation("presentation_get")(time.Now())

	var presentation model.Presentation
	result := r.db.First(&presentation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get presentation %d: %w", id, result.Error)
	}
	return &presentation, nil
}

func (r *gormPresentationRepository) Save(p *model.Presentation) error {
	defer prometheus.TrackDBOperation("presentation_save")(time.Now())

	if err := r.db.Transaction(func(tx *gorm.DB) error { return tx.Save(p).Error }); err != nil {
		return fmt.Errorf("save presentation: %w", err)
	}
	return nil
}
