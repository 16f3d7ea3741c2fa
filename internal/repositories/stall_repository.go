package repositories

import (
	"context"

	"pasar/internal/models"
)

// StallRepository defines the interface for stall data access.
type StallRepository interface {
	GetAll(ctx context.Context) ([]models.Stall, error)
	GetByID(ctx context.Context, id string) (*models.Stall, error)
	Create(ctx context.Context, stall *models.Stall) error
	Update(ctx context.Context, stall *models.Stall) error
	Delete(ctx context.Context, id string) error
}
