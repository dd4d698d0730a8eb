package services

import (
	"context"
	"strings"
	"testing"

	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminServiceForTest(t *testing.T, users *MockUserRepository) AdminService {
	t.Helper()
	return NewAdminService(users, newMemoryCache(), testLogger(t))
}

func TestGetStats_CachesAggregate(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	users.On("GetAdminStats", mock.Anything).Return(&repositories.AdminStats{
		TotalUsers:    12,
		TotalStudents: 8,
		TotalReports:  4,
	}, nil).Once()

	first, err := service.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), first.TotalUsers)

	// Served from cache; the repository expectation is Once.
	second, err := service.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), second.TotalUsers)

	users.AssertExpectations(t)
}

func TestListUsers_ClampsPagination(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	users.On("List", mock.Anything, repositories.UserFilters{Limit: 5, Offset: 0}).
		Return([]*models.User{{ID: 1}}, int64(1), nil)

	page, err := service.ListUsers(context.Background(), -3, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, int64(1), page.Total)
	users.AssertExpectations(t)
}

func TestListUsers_OffsetFollowsPage(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	users.On("List", mock.Anything, repositories.UserFilters{Limit: 10, Offset: 20}).
		Return([]*models.User{}, int64(25), nil)

	page, err := service.ListUsers(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	users.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	users.On("Delete", mock.Anything, uint(99)).Return(gorm.ErrRecordNotFound)

	err := service.DeleteUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExportUsers_PDF(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	city := "Hanoi"
	role := models.RoleStudent
	users.On("List", mock.Anything, repositories.UserFilters{City: &city, Role: &role}).
		Return([]*models.User{
			{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@vu.edu", StudentID: "S1", Role: models.RoleStudent},
		}, int64(1), nil)

	data, filename, contentType, err := service.ExportUsers(context.Background(), "Hanoi", "student", ExportPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", contentType)
	assert.Contains(t, filename, "users-export-Hanoi-student-")
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportUsers_XLSX(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	users.On("List", mock.Anything, repositories.UserFilters{}).
		Return([]*models.User{
			{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@vu.edu", StudentID: "S1", Role: models.RoleStudent},
		}, int64(1), nil)

	data, filename, contentType, err := service.ExportUsers(context.Background(), "", "", ExportXLSX)
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	// xlsx files are zip archives.
	require.Greater(t, len(data), 2)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestExportUsers_UnknownFormat(t *testing.T) {
	users := new(MockUserRepository)
	service := newAdminServiceForTest(t, users)

	users.On("List", mock.Anything, repositories.UserFilters{}).
		Return([]*models.User{}, int64(0), nil)

	_, _, _, err := service.ExportUsers(context.Background(), "", "", "csv")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
