package services_test

import (
	"context"
	"sync/atomic"

	"pasar/internal/auth"
	"pasar/internal/models"
	"pasar/internal/notify"
	"pasar/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, fields repositories.UserFields) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByNameInStall(ctx context.Context, stallID, name string) (*models.Product, error) {
	args := m.Called(ctx, stallID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStatus(ctx context.Context, id string, status models.ProductStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStallRepository is a mock implementation of repositories.StallRepository
type MockStallRepository struct {
	mock.Mock
}

func (m *MockStallRepository) GetAll(ctx context.Context) ([]models.Stall, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Stall), args.Error(1)
}

func (m *MockStallRepository) GetByID(ctx context.Context, id string) (*models.Stall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stall), args.Error(1)
}

func (m *MockStallRepository) Create(ctx context.Context, stall *models.Stall) error {
	args := m.Called(ctx, stall)
	return args.Error(0)
}

func (m *MockStallRepository) Update(ctx context.Context, stall *models.Stall) error {
	args := m.Called(ctx, stall)
	return args.Error(0)
}

func (m *MockStallRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, kind notify.Kind, to string, data map[string]string) error {
	args := m.Called(ctx, kind, to, data)
	return args.Error(0)
}

// seqOTP hands out codes in order.
type seqOTP struct {
	codes []string
	next  int
}

func (g *seqOTP) Generate() (string, error) {
	code := g.codes[g.next%len(g.codes)]
	g.next++
	return code, nil
}

// stubStoredUser makes repo behave like a store holding exactly u.
func stubStoredUser(repo *MockUserRepository, u *models.User) {
	repo.On("FindByEmail", mock.Anything, u.Email).Return(u, nil)
	repo.On("FindByID", mock.Anything, u.ID).Return(u, nil)
	repo.On("Update", mock.Anything, u.ID, mock.Anything).
		Run(func(args mock.Arguments) {
			applyFields(u, args.Get(2).(repositories.UserFields))
		}).
		Return(u, nil)
}

func applyFields(u *models.User, fields repositories.UserFields) {
	for column, v := range fields {
		switch column {
		case repositories.ColumnName:
			u.Name = v.(string)
		case repositories.ColumnEmail:
			u.Email = v.(string)
		case repositories.ColumnPasswordHash:
			u.PasswordHash = v.(string)
		case repositories.ColumnRole:
			u.Role = models.Role(v.(string))
		case repositories.ColumnIsVerified:
			u.IsVerified = v.(bool)
		case repositories.ColumnPendingCode:
			if v == nil {
				u.PendingCode = nil
				continue
			}
			code := v.(string)
			u.PendingCode = &code
		}
	}
}

func strPtr(s string) *string { return &s }

// countingHasher records how often passwords are compared.
type countingHasher struct {
	*auth.BcryptHasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(plain, digest string) bool {
	h.verifies.Add(1)
	return h.BcryptHasher.Verify(plain, digest)
}
