package repositories

import (
	"github.com/mobile-bio-lab/lab-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	City   *string          `json:"city"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type ReservationFilters struct {
	UserID   *uint                     `json:"user_id"`
	Date     *string                   `json:"date"`
	Status   *models.ReservationStatus `json:"status"`
	FromDate *string                   `json:"from_date"` // inclusive lower bound on Date
	Limit    int                       `json:"limit"`
}

// ===== SHARED STATISTICS STRUCTS =====

// AdminStats is the aggregate the admin dashboard reads in a single query.
type AdminStats struct {
	TotalUsers             int64 `json:"total_users"`
	TotalStudents          int64 `json:"total_students"`
	TotalResearchers       int64 `json:"total_researchers"`
	TotalTechnicians       int64 `json:"total_technicians"`
	TotalAdmins            int64 `json:"total_admins"`
	TotalReservationsToday int64 `json:"total_reservations_today"`
	TotalSamplesToday      int64 `json:"total_samples_today"`
	TotalReports           int64 `json:"total_reports"`
}

// ReportWithDetails joins a report with its sample and owner for rendering.
type ReportWithDetails struct {
	Report models.Report `json:"report"`
	Sample models.Sample `json:"sample"`
	Owner  models.User   `json:"owner"`
}
