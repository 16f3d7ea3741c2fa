package repositories

import (
	"context"

	"pasar/internal/models"
)

// Columns accepted by UserRepository.Update.
const (
	ColumnName         = "name"
	ColumnEmail        = "email"
	ColumnPasswordHash = "password_hash"
	ColumnRole         = "role"
	ColumnIsVerified   = "is_verified"
	ColumnPendingCode  = "pending_code"
)

// UserFields is a partial update keyed by column. A nil value stores NULL.
type UserFields map[string]interface{}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields UserFields) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	Delete(ctx context.Context, id string) error
}
