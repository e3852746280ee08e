package models

import (
	"time"
)

// Vitals represents a single vital-sign reading submitted by a patient.
type Vitals struct {
	BaseModel
	UserID      string    `gorm:"size:36;index" json:"userId"`
	HeartRate   int       `json:"heartRate"`
	BPSystolic  int       `json:"bpSystolic"`
	BPDiastolic int       `json:"bpDiastolic"`
	Oxygen      int       `json:"oxygen"`
	Temperature float64   `json:"temperature"`
	Sugar       int       `json:"sugar"`
	Symptoms    string    `gorm:"size:255" json:"symptoms"`
	RecordedAt  time.Time `gorm:"index" json:"recordedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
