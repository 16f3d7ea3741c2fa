package services

import (
	"context"
	"errors"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
	"pasar/internal/models"
	"pasar/internal/repositories"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// UserPage is one page of the user listing.
type UserPage struct {
	Data     []models.PublicUser `json:"data"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	LastPage int                 `json:"last_page"`
}

const msgEmailInUse = "Email is already in use"

// NewUser is an account provisioned by an administrator.
type NewUser struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Name     string      `json:"name" validate:"required,min=2,max=100"`
	Role     models.Role `json:"role"`
}

// ProfileUpdate holds the self-service profile fields. Nil fields are kept.
type ProfileUpdate struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserService handles profile and account administration.
type UserService struct {
	users  repositories.UserRepository
	hasher auth.PasswordHasher
	log    logging.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, hasher auth.PasswordHasher, log logging.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, log: log.With("component", "user_service")}
}

// Get returns the public profile of a user.
func (s *UserService) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "get_user", err, msgUserNotFound)
	}
	pub := user.Public()
	return &pub, nil
}

// List returns a page of users. page starts at 1; out-of-range values fall
// back to the defaults.
func (s *UserService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	users, total, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, storeFailure(ctx, s.log, "list_users", err)
	}
	out := &UserPage{
		Data:     make([]models.PublicUser, 0, len(users)),
		Total:    total,
		Page:     page,
		LastPage: int((total + int64(limit) - 1) / int64(limit)),
	}
	for i := range users {
		out.Data = append(out.Data, users[i].Public())
	}
	return out, nil
}

// ChangeRole sets the role of a user. Tokens issued before the change keep
// the old role until they expire.
func (s *UserService) ChangeRole(ctx context.Context, id string, role models.Role) (*models.PublicUser, error) {
	if !role.Valid() {
		return nil, apperror.BadRequest("Invalid role")
	}
	user, err := s.users.Update(ctx, id, repositories.UserFields{
		repositories.ColumnRole: string(role),
	})
	if err != nil {
		return nil, lookupError(ctx, s.log, "change_role", err, msgUserNotFound)
	}
	s.log.Info(ctx, "role changed", "user_id", id, "role", role)
	pub := user.Public()
	return &pub, nil
}

// ChangePassword replaces the password of user id after checking the current
// one. Callers may change their own password; MAIN_ADMIN may change anyone's.
func (s *UserService) ChangePassword(ctx context.Context, caller auth.Claims, id, current, next string) (*models.PublicUser, error) {
	if caller.Role != models.RoleMainAdmin && caller.Subject != id {
		return nil, apperror.Forbidden("You can only change your own password")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "change_password", err, msgUserNotFound)
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return nil, apperror.BadRequest("Current password is incorrect")
	}

	digest, err := hashPassword(ctx, s.log, s.hasher, "change_password", next)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.Update(ctx, id, repositories.UserFields{
		repositories.ColumnPasswordHash: digest,
	})
	if err != nil {
		return nil, lookupError(ctx, s.log, "change_password", err, msgUserNotFound)
	}
	pub := updated.Public()
	return &pub, nil
}

// Create provisions an account with any role. An empty role means CUSTOMER.
// The account starts unverified.
func (s *UserService) Create(ctx context.Context, in NewUser) (*models.PublicUser, error) {
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	if !in.Role.Valid() {
		return nil, apperror.BadRequest("Invalid role")
	}
	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperror.Conflict(msgEmailInUse)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeFailure(ctx, s.log, "create_user", err)
	}

	digest, err := hashPassword(ctx, s.log, s.hasher, "create_user", in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: digest,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailInUse)
		}
		return nil, storeFailure(ctx, s.log, "create_user", err)
	}
	s.log.Info(ctx, "user provisioned", "user_id", user.ID, "role", user.Role)
	pub := user.Public()
	return &pub, nil
}

// GetByEmail returns the public profile of the user with this exact email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.PublicUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(ctx, s.log, "get_user_by_email", err, msgUserNotFound)
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile changes the caller's own name or email. A new email must be
// verified again, so it clears the verified flag and any pending code.
func (s *UserService) UpdateProfile(ctx context.Context, caller auth.Claims, in ProfileUpdate) (*models.PublicUser, error) {
	fields := repositories.UserFields{}
	if in.Name != nil {
		fields[repositories.ColumnName] = *in.Name
	}
	if in.Email != nil {
		current, err := s.users.FindByID(ctx, caller.Subject)
		if err != nil {
			return nil, lookupError(ctx, s.log, "update_profile", err, msgUserNotFound)
		}
		if *in.Email != current.Email {
			fields[repositories.ColumnEmail] = *in.Email
			fields[repositories.ColumnIsVerified] = false
			fields[repositories.ColumnPendingCode] = nil
		}
	}
	if len(fields) == 0 {
		return s.Get(ctx, caller.Subject)
	}

	user, err := s.users.Update(ctx, caller.Subject, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailInUse)
		}
		return nil, lookupError(ctx, s.log, "update_profile", err, msgUserNotFound)
	}
	pub := user.Public()
	return &pub, nil
}

// Delete removes an account. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller auth.Claims, id string) error {
	if caller.Subject == id {
		return apperror.BadRequest("You cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return lookupError(ctx, s.log, "delete_user", err, msgUserNotFound)
	}
	s.log.Info(ctx, "user deleted", "user_id", id, "by", caller.Subject)
	return nil
}
