package models

import (
	"time"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportCompleted ReportStatus = "completed"
)

// Report accompanies a sample and progresses pending -> completed. The PDF is
// rendered on demand at download time, never persisted.
type Report struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	SampleID      uint         `json:"sample_id" gorm:"not null;index"`
	GeneratedDate time.Time    `json:"generated_date" gorm:"not null"`
	PDFPath       string       `json:"pdf_path" gorm:"size:255;not null"`
	Status        ReportStatus `json:"status" gorm:"size:10;not null;default:pending;index"`
	CompletedDate *time.Time   `json:"completed_date"`

	Sample Sample `json:"-" gorm:"foreignKey:SampleID"`
}

func (Report) TableName() string {
	return "reports"
}
