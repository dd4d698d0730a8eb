package services

import (
	"github.com/mobile-bio-lab/lab-service/internal/cache"
	"github.com/mobile-bio-lab/lab-service/internal/config"
	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/mailer"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
)

// ServiceManager gives handlers access to every service behind one value.
type ServiceManager interface {
	Auth() AuthService
	Reservation() ReservationService
	Sample() SampleService
	Report() ReportService
	Admin() AdminService
}

type serviceManager struct {
	auth        AuthService
	reservation ReservationService
	sample      SampleService
	report      ReportService
	admin       AdminService
}

type Dependencies struct {
	Users        repositories.UserRepository
	Reservations repositories.ReservationRepository
	Samples      repositories.SampleRepository
	Reports      repositories.ReportRepository

	Config    *config.Config
	Cache     cache.CacheService
	Mailer    mailer.Mailer
	Publisher events.EventPublisher
	Validator *utils.Validator
	Logger    utils.Logger
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{
		auth:        NewAuthService(deps.Users, deps.Config, deps.Mailer, deps.Publisher, deps.Validator, deps.Logger),
		reservation: NewReservationService(deps.Reservations, deps.Cache, deps.Publisher, deps.Validator, deps.Logger),
		sample:      NewSampleService(deps.Samples, deps.Publisher, deps.Validator, deps.Logger),
		report:      NewReportService(deps.Reports, deps.Samples, deps.Publisher, deps.Logger),
		admin:       NewAdminService(deps.Users, deps.Cache, deps.Logger),
	}
}

func (m *serviceManager) Auth() AuthService               { return m.auth }
func (m *serviceManager) Reservation() ReservationService { return m.reservation }
func (m *serviceManager) Sample() SampleService           { return m.sample }
func (m *serviceManager) Report() ReportService           { return m.report }
func (m *serviceManager) Admin() AdminService             { return m.admin }
