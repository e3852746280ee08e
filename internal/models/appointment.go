package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// UnassignedDoctor is the placeholder doctor name used until a real doctor is
// assigned, and kept when no available doctor matches the specialization.
const UnassignedDoctor = "Dr. Auto Assign"

// Appointment represents a patient's appointment request. It is created with
// status pending and promoted to confirmed by the assignment scheduler; the
// cancelled and completed transitions belong to the user-facing flows.
type Appointment struct {
	BaseModel
	UserID        string            `gorm:"size:36;index" json:"userId"`
	Reason        string            `gorm:"size:255" json:"reason"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	DoctorName    string            `gorm:"size:100;default:'Dr. Auto Assign'" json:"doctorName"`
	Status        AppointmentStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	PreferredDate *time.Time        `json:"preferredDate,omitempty"`
	PreferredTime *string           `gorm:"size:8" json:"preferredTime,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
