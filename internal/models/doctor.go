package models

import (
	"healthpulse-server/internal/specialization"
)

// Doctor represents a doctor available for appointment assignment.
type Doctor struct {
	BaseModel
	Name           string                        `gorm:"size:100;not null" json:"name"`
	Specialization specialization.Specialization `gorm:"size:50;index" json:"specialization"`
	IsAvailable    bool                          `gorm:"default:true" json:"isAvailable"`
}
