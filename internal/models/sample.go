package models

import (
	"time"
)

type SampleType string

const (
	SampleSoil  SampleType = "soil"
	SampleWater SampleType = "water"
	SamplePlant SampleType = "plant"
	SampleOther SampleType = "other"
)

// Sample is immutable after submission.
type Sample struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	UserID             uint       `json:"user_id" gorm:"not null;index"`
	CollectionDateTime time.Time  `json:"collection_date_time" gorm:"not null" validate:"required"`
	SampleType         SampleType `json:"sample_type" gorm:"size:10;not null" validate:"required,sample_type"`

	GeoLocation *string  `json:"geo_location" gorm:"size:100" validate:"omitempty,max=100"`
	Temperature *float64 `json:"temperature"`
	PH          *float64 `json:"ph" gorm:"column:ph" validate:"omitempty,min=0,max=14"`
	Salinity    *float64 `json:"salinity"`
	BarcodeID   *string  `json:"barcode_id" gorm:"uniqueIndex;size:50" validate:"omitempty,max=50"`

	CreatedAt time.Time `json:"created_at"`

	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Reports []Report `json:"-" gorm:"foreignKey:SampleID;constraint:OnDelete:CASCADE"`
}

func (Sample) TableName() string {
	return "samples"
}
