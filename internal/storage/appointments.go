package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"healthpulse-server/internal/models"
)

// ConfirmedFields are the columns written when the scheduler promotes a
// pending appointment. Nil pointer fields are left untouched so a patient's
// own preferred date/time is never overwritten.
type ConfirmedFields struct {
	DoctorName    string
	PreferredDate *time.Time
	PreferredTime *string
	UpdatedAt     time.Time
}

// AppointmentStore is the persistence surface the assignment engine needs:
// a snapshot of pending appointments and a targeted conditional update.
type AppointmentStore interface {
	ListPending(ctx context.Context) ([]models.Appointment, error)
	ConfirmPending(ctx context.Context, id string, fields ConfirmedFields) (bool, error)
}

// GormAppointmentStore implements AppointmentStore on the application database.
type GormAppointmentStore struct {
	DB *gorm.DB
}

// NewAppointmentStore creates a GormAppointmentStore.
func NewAppointmentStore(db *gorm.DB) *GormAppointmentStore {
	return &GormAppointmentStore{DB: db}
}

// ListPending returns a snapshot of all currently pending appointments,
// oldest first. Appointments created after the snapshot is taken are picked
// up on the next pass.
func (s *GormAppointmentStore) ListPending(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order("created_at asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// ConfirmPending promotes the appointment to confirmed with a targeted update
// keyed on id AND status=pending. The status guard makes the write a
// compare-and-set: an appointment cancelled by the patient between the
// snapshot and the write is never resurrected. Returns false when the row no
// longer matched.
func (s *GormAppointmentStore) ConfirmPending(ctx context.Context, id string, fields ConfirmedFields) (bool, error) {
	updates := map[string]interface{}{
		"status":      models.StatusConfirmed,
		"doctor_name": fields.DoctorName,
		"updated_at":  fields.UpdatedAt,
	}
	if fields.PreferredDate != nil {
		updates["preferred_date"] = *fields.PreferredDate
	}
	if fields.PreferredTime != nil {
		updates["preferred_time"] = *fields.PreferredTime
	}

	result := s.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
