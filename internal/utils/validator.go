package utils

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/mobile-bio-lab/lab-service/internal/errors"
	"github.com/mobile-bio-lab/lab-service/internal/models"
)

// timeSlotPattern accepts hour:minute within a 24-hour range, e.g. "09:00".
var timeSlotPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Validator wraps go-playground struct validation with the service's custom tags.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// ValidateStruct validates struct tags and converts failures into the shared
// validation error type.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Var validates a single value against a tag expression.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// Custom validation functions

func ValidateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleResearcher,
		models.RoleTechnician,
		models.RoleAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func ValidateSampleType(fl validator.FieldLevel) bool {
	validTypes := []models.SampleType{
		models.SampleSoil,
		models.SampleWater,
		models.SamplePlant,
		models.SampleOther,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func ValidateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func ValidateTimeSlot(fl validator.FieldLevel) bool {
	return timeSlotPattern.MatchString(fl.Field().String())
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("sample_type", ValidateSampleType)
	validate.RegisterValidation("calendar_date", ValidateCalendarDate)
	validate.RegisterValidation("time_slot", ValidateTimeSlot)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
