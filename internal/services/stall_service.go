package services

import (
	"context"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

const msgStallNotFound = "Stall not found"

// StallInput carries the writable fields of a stall.
type StallInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Location    string `json:"location" validate:"omitempty,max=255"`
	OwnerID     string `json:"owner_id" validate:"omitempty,uuid"`
}

// StallService handles business logic related to stalls.
type StallService struct {
	stalls repositories.StallRepository
	log    logging.Logger
}

// NewStallService creates a new StallService.
func NewStallService(stalls repositories.StallRepository, log logging.Logger) *StallService {
	return &StallService{stalls: stalls, log: log.With("component", "stall_service")}
}

// Create opens a stall. A STALL_ADMIN always becomes the owner; a MAIN_ADMIN
// may name one and otherwise owns it.
func (s *StallService) Create(ctx context.Context, caller auth.Claims, in StallInput) (*models.Stall, error) {
	owner := in.OwnerID
	if caller.Role == models.RoleStallAdmin || owner == "" {
		owner = caller.Subject
	}
	stall := &models.Stall{
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
		OwnerID:     owner,
	}
	if err := s.stalls.Create(ctx, stall); err != nil {
		return nil, storeFailure(ctx, s.log, "create_stall", err)
	}
	return stall, nil
}

func (s *StallService) List(ctx context.Context) ([]models.Stall, error) {
	stalls, err := s.stalls.GetAll(ctx)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "list_stalls", err)
	}
	return stalls, nil
}

func (s *StallService) Get(ctx context.Context, id string) (*models.Stall, error) {
	stall, err := s.stalls.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "get_stall", err, msgStallNotFound)
	}
	return stall, nil
}

// Update edits a stall the caller may manage. Only MAIN_ADMIN may move a
// stall to another owner.
func (s *StallService) Update(ctx context.Context, caller auth.Claims, id string, in StallInput) (*models.Stall, error) {
	stall, err := s.manageable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != "" && in.OwnerID != stall.OwnerID {
		if caller.Role != models.RoleMainAdmin {
			return nil, apperror.Forbidden("Only MAIN_ADMIN can transfer a stall")
		}
		stall.OwnerID = in.OwnerID
	}
	stall.Name = in.Name
	stall.Description = in.Description
	stall.Location = in.Location
	if err := s.stalls.Update(ctx, stall); err != nil {
		return nil, lookupError(ctx, s.log, "update_stall", err, msgStallNotFound)
	}
	return stall, nil
}

// Delete removes a stall the caller may manage.
func (s *StallService) Delete(ctx context.Context, caller auth.Claims, id string) error {
	if _, err := s.manageable(ctx, caller, id); err != nil {
		return err
	}
	if err := s.stalls.Delete(ctx, id); err != nil {
		return lookupError(ctx, s.log, "delete_stall", err, msgStallNotFound)
	}
	return nil
}

// manageable loads a stall and checks that caller is MAIN_ADMIN or its owner.
func (s *StallService) manageable(ctx context.Context, caller auth.Claims, id string) (*models.Stall, error) {
	stall, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleMainAdmin && stall.OwnerID != caller.Subject {
		return nil, apperror.Forbidden("Only MAIN_ADMIN or the stall owner can manage this stall")
	}
	return stall, nil
}
