package repositories

import (
	"context"
	"errors"
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStallRepository is a GORM implementation of StallRepository.
type GORMStallRepository struct {
	db *gorm.DB
}

func NewGORMStallRepository(db *gorm.DB) *GORMStallRepository {
	return &GORMStallRepository{db: db}
}

func (r *GORMStallRepository) GetAll(ctx context.Context) ([]models.Stall, error) {
	var stalls []models.Stall
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&stalls).Error; err != nil {
		return nil, fmt.Errorf("failed to get all stalls: %w", err)
	}
	return stalls, nil
}

func (r *GORMStallRepository) GetByID(ctx context.Context, id string) (*models.Stall, error) {
	var stall models.Stall
	if err := r.db.WithContext(ctx).First(&stall, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("stall with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get stall by ID %s: %w", id, err)
	}
	return &stall, nil
}

func (r *GORMStallRepository) Create(ctx context.Context, stall *models.Stall) error {
	if stall.ID == "" {
		stall.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(stall).Error; err != nil {
		return fmt.Errorf("failed to create stall: %w", err)
	}
	return nil
}

func (r *GORMStallRepository) Update(ctx context.Context, stall *models.Stall) error {
	res := r.db.WithContext(ctx).
		Model(&models.Stall{}).
		Where("id = ?", stall.ID).
		Select("name", "description", "location", "owner_id").
		Updates(stall)
	if res.Error != nil {
		return fmt.Errorf("failed to update stall: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stall with ID %s for update: %w", stall.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMStallRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Stall{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete stall: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stall with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
