package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mobile-bio-lab/lab-service/internal/models"
)

// EventType represents different types of notification events
type EventType string

const (
	// User events
	EventUserRegistered EventType = "user.registered"
	EventUserVerified   EventType = "user.verified"

	// Reservation events
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationCancelled EventType = "reservation.cancelled"

	// Sample and report events
	EventSampleSubmitted EventType = "sample.submitted"
	EventReportCompleted EventType = "report.completed"
)

const eventSource = "lab-service"

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewNotificationEvent wraps a payload in the event envelope.
func NewNotificationEvent(eventType EventType, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

// Event payloads

type UserRegisteredEvent struct {
	UserID    uint            `json:"user_id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	StudentID string          `json:"student_id"`
}

type ReservationEvent struct {
	ReservationID uint   `json:"reservation_id"`
	UserID        uint   `json:"user_id"`
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
}

type SampleSubmittedEvent struct {
	SampleID   uint              `json:"sample_id"`
	UserID     uint              `json:"user_id"`
	SampleType models.SampleType `json:"sample_type"`
	ReportID   uint              `json:"report_id"`
}

type ReportCompletedEvent struct {
	ReportID      uint      `json:"report_id"`
	SampleID      uint      `json:"sample_id"`
	CompletedDate time.Time `json:"completed_date"`
}
