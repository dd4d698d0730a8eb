package services

import (
	"context"
	"testing"

	apperrors "github.com/mobile-bio-lab/lab-service/internal/errors"
	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReservationService(t *testing.T, repo *MockReservationRepository, publisher *events.MockEventPublisher) ReservationService {
	t.Helper()
	return NewReservationService(repo, newMemoryCache(), publisher, newTestValidator(), testLogger(t))
}

func TestBook_Success(t *testing.T) {
	repo := new(MockReservationRepository)
	publisher := events.NewMockEventPublisher()
	service := newReservationService(t, repo, publisher)

	repo.On("CreateConfirmed", mock.Anything, mock.AnythingOfType("*models.Reservation")).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*models.Reservation)
			r.ID = 10
			r.Status = models.ReservationConfirmed
		}).
		Return(nil)

	reservation, err := service.Book(context.Background(), 5, &BookSlotRequest{
		Date:     "2026-04-01",
		TimeSlot: "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(10), reservation.ID)
	assert.Equal(t, uint(5), reservation.UserID)
	assert.Equal(t, models.ReservationConfirmed, reservation.Status)

	require.Len(t, publisher.Events, 1)
	assert.Equal(t, events.EventReservationConfirmed, publisher.Events[0].Type)
	repo.AssertExpectations(t)
}

func TestBook_InvalidInputFailsBeforeStorage(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	cases := []BookSlotRequest{
		{Date: "not-a-date", TimeSlot: "10:00"},
		{Date: "2026-04-01", TimeSlot: "25:00"},
		{Date: "", TimeSlot: "10:00"},
		{Date: "2026-04-01", TimeSlot: ""},
	}
	for _, req := range cases {
		_, err := service.Book(context.Background(), 5, &req)
		require.Error(t, err)

		var ve apperrors.ValidationErrors
		assert.ErrorAs(t, err, &ve, "request %+v should fail validation", req)
	}

	repo.AssertNotCalled(t, "CreateConfirmed", mock.Anything, mock.Anything)
}

func TestBook_SlotTaken(t *testing.T) {
	repo := new(MockReservationRepository)
	publisher := events.NewMockEventPublisher()
	service := newReservationService(t, repo, publisher)

	repo.On("CreateConfirmed", mock.Anything, mock.Anything).Return(repositories.ErrSlotTaken)

	_, err := service.Book(context.Background(), 5, &BookSlotRequest{
		Date:     "2026-04-01",
		TimeSlot: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.True(t, IsConflict(err))
	assert.Empty(t, publisher.Events)
}

func TestCancel_Success(t *testing.T) {
	repo := new(MockReservationRepository)
	publisher := events.NewMockEventPublisher()
	service := newReservationService(t, repo, publisher)

	repo.On("GetByID", mock.Anything, uint(10)).Return(&models.Reservation{
		ID:       10,
		UserID:   5,
		Date:     "2026-04-01",
		TimeSlot: "10:00",
		Status:   models.ReservationConfirmed,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, uint(10), models.ReservationCancelled).Return(nil)

	reservation, err := service.Cancel(context.Background(), 5, 10)
	require.NoError(t, err)

	assert.Equal(t, models.ReservationCancelled, reservation.Status)
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, events.EventReservationCancelled, publisher.Events[0].Type)
	repo.AssertExpectations(t)
}

func TestCancel_NotFound(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	repo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Cancel(context.Background(), 5, 99)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.True(t, IsNotFound(err))
}

func TestCancel_NotOwned(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	repo.On("GetByID", mock.Anything, uint(10)).Return(&models.Reservation{
		ID:     10,
		UserID: 7,
		Status: models.ReservationConfirmed,
	}, nil)

	_, err := service.Cancel(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrReservationNotOwned)
	assert.True(t, IsForbidden(err))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	repo.On("GetByID", mock.Anything, uint(10)).Return(&models.Reservation{
		ID:     10,
		UserID: 5,
		Status: models.ReservationCancelled,
	}, nil)

	_, err := service.Cancel(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrReservationNotActive)
	assert.True(t, IsInvalidState(err))
}

func TestCancelThenRebookSameSlot(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	repo.On("GetByID", mock.Anything, uint(10)).Return(&models.Reservation{
		ID:       10,
		UserID:   5,
		Date:     "2026-04-01",
		TimeSlot: "10:00",
		Status:   models.ReservationConfirmed,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, uint(10), models.ReservationCancelled).Return(nil)

	_, err := service.Cancel(context.Background(), 5, 10)
	require.NoError(t, err)

	// The cancelled row no longer blocks the cell, so a fresh booking of the
	// same (date, time slot) goes through.
	repo.On("CreateConfirmed", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			r := args.Get(1).(*models.Reservation)
			r.ID = 11
			r.Status = models.ReservationConfirmed
		}).
		Return(nil)

	rebooked, err := service.Book(context.Background(), 6, &BookSlotRequest{
		Date:     "2026-04-01",
		TimeSlot: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(11), rebooked.ID)
	assert.Equal(t, models.ReservationConfirmed, rebooked.Status)
}

func TestListByDate_CachesResult(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	confirmed := models.ReservationConfirmed
	date := "2026-04-01"
	repo.On("List", mock.Anything, repositories.ReservationFilters{
		Date:   &date,
		Status: &confirmed,
	}).Return([]*models.Reservation{
		{ID: 1, Date: date, TimeSlot: "10:00", Status: confirmed},
	}, nil).Once()

	first, err := service.ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second call is served from cache; the repository expectation is Once.
	second, err := service.ListByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)

	repo.AssertExpectations(t)
}

func TestListByDate_InvalidDate(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	_, err := service.ListByDate(context.Background(), "last tuesday")
	assert.ErrorIs(t, err, ErrValidationFailed)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestBook_InvalidatesDateCache(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	confirmed := models.ReservationConfirmed
	date := "2026-04-01"

	// Prime the cache with an empty listing.
	repo.On("List", mock.Anything, repositories.ReservationFilters{
		Date:   &date,
		Status: &confirmed,
	}).Return([]*models.Reservation{}, nil).Twice()

	_, err := service.ListByDate(context.Background(), date)
	require.NoError(t, err)

	repo.On("CreateConfirmed", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Reservation).ID = 1
		}).
		Return(nil)
	_, err = service.Book(context.Background(), 5, &BookSlotRequest{Date: date, TimeSlot: "10:00"})
	require.NoError(t, err)

	// Booking dropped the cached entry, so this hits the repository again.
	_, err = service.ListByDate(context.Background(), date)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListUpcoming_FiltersByUserAndDate(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.ReservationFilters) bool {
		return f.UserID != nil && *f.UserID == 5 &&
			f.Status != nil && *f.Status == models.ReservationConfirmed &&
			f.FromDate != nil
	})).Return([]*models.Reservation{{ID: 3, UserID: 5}}, nil)

	reservations, err := service.ListUpcoming(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	repo.AssertExpectations(t)
}

func TestListAll_MapsOwnerNames(t *testing.T) {
	repo := new(MockReservationRepository)
	service := newReservationService(t, repo, events.NewMockEventPublisher())

	repo.On("ListWithUsers", mock.Anything, repositories.ReservationFilters{Limit: 100}).
		Return([]*models.Reservation{
			{
				ID:       1,
				Date:     "2026-04-01",
				TimeSlot: "10:00",
				Status:   models.ReservationConfirmed,
				User:     models.User{FirstName: "Ada", LastName: "Lovelace"},
			},
		}, nil)

	entries, err := service.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ada Lovelace", entries[0].StudentName)
}
