package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mobile-bio-lab/lab-service/internal/cache"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
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

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmailOrStudentID(ctx context.Context, email, studentID string) (bool, error) {
	args := m.Called(ctx, email, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsAdmin(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByVerification(ctx context.Context, studentID, token string) (*models.User, error) {
	args := m.Called(ctx, studentID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetAdminStats(ctx context.Context) (*repositories.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.AdminStats), args.Error(1)
}

// MockReservationRepository is a mock implementation of repositories.ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateConfirmed(ctx context.Context, reservation *models.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepository) List(ctx context.Context, filters repositories.ReservationFilters) ([]*models.Reservation, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListWithUsers(ctx context.Context, filters repositories.ReservationFilters) ([]*models.Reservation, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

// MockSampleRepository is a mock implementation of repositories.SampleRepository
type MockSampleRepository struct {
	mock.Mock
}

func (m *MockSampleRepository) CreateWithReport(ctx context.Context, sample *models.Sample, report *models.Report) error {
	args := m.Called(ctx, sample, report)
	return args.Error(0)
}

func (m *MockSampleRepository) GetByID(ctx context.Context, id uint) (*models.Sample, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sample), args.Error(1)
}

func (m *MockSampleRepository) ListWithUsers(ctx context.Context) ([]*models.Sample, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Sample), args.Error(1)
}

// MockReportRepository is a mock implementation of repositories.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) GetWithDetails(ctx context.Context, id uint) (*repositories.ReportWithDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ReportWithDetails), args.Error(1)
}

func (m *MockReportRepository) ListByUser(ctx context.Context, userID uint) ([]*repositories.ReportWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.ReportWithDetails), args.Error(1)
}

func (m *MockReportRepository) Complete(ctx context.Context, id uint) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

// memoryCache is an in-process CacheService for testing cache interaction.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func testLogger(t *testing.T) utils.Logger {
	t.Helper()
	return utils.NewDevelopmentLogger()
}

func newTestValidator() *utils.Validator {
	return utils.NewValidator()
}
