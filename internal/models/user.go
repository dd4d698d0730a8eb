package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleResearcher UserRole = "researcher"
	RoleTechnician UserRole = "technician"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	FirstName    string   `json:"first_name" gorm:"not null;size:50" validate:"required,min=1,max=50"`
	LastName     string   `json:"last_name" gorm:"not null;size:50" validate:"required,min=1,max=50"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:100" validate:"required,email"`
	StudentID    string   `json:"student_id" gorm:"uniqueIndex;not null;size:20" validate:"required,max=20"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index" validate:"required,user_role"`

	// Profile info
	MobileNo       *string `json:"mobile_no" gorm:"size:15" validate:"omitempty,max=15"`
	City           *string `json:"city" gorm:"size:50" validate:"omitempty,max=50"`
	ProfilePicture *string `json:"profile_picture" gorm:"size:255"`

	// Email verification
	Verified          bool    `json:"verified" gorm:"default:false"`
	VerificationToken *string `json:"-" gorm:"size:64;index"`

	Preferences datatypes.JSON `json:"preferences"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Reservations []Reservation `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Samples      []Sample      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// FullName is what report and export rendering display for the sample owner.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
