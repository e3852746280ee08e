package storage

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"

	"healthpulse-server/internal/models"
	"healthpulse-server/internal/specialization"
)

// DoctorDirectory is the read-only doctor lookup used by the assignment
// engine and the booking flow. A nil doctor with a nil error means no
// available doctor matched the specialization.
type DoctorDirectory interface {
	FindAvailable(ctx context.Context, spec specialization.Specialization) (*models.Doctor, error)
}

// GormDoctorDirectory implements DoctorDirectory with a short-TTL cache in
// front of the database. Availability changes rarely compared to how often
// the booking endpoint asks for a doctor hint, so a stale-by-seconds answer
// is acceptable on that path.
type GormDoctorDirectory struct {
	DB    *gorm.DB
	cache *expirable.LRU[specialization.Specialization, models.Doctor]
}

// NewDoctorDirectory creates a directory. A zero ttl disables caching.
func NewDoctorDirectory(db *gorm.DB, ttl time.Duration) *GormDoctorDirectory {
	d := &GormDoctorDirectory{DB: db}
	if ttl > 0 {
		d.cache = expirable.NewLRU[specialization.Specialization, models.Doctor](32, nil, ttl)
	}
	return d
}

// FindAvailable returns one available doctor with the given specialization,
// or nil when none exists. Selection among multiple matches is arbitrary
// (first row found).
func (d *GormDoctorDirectory) FindAvailable(ctx context.Context, spec specialization.Specialization) (*models.Doctor, error) {
	if d.cache != nil {
		if doctor, ok := d.cache.Get(spec); ok {
			return &doctor, nil
		}
	}

	var doctor models.Doctor
	err := d.DB.WithContext(ctx).
		Where("specialization = ? AND is_available = ?", spec, true).
		First(&doctor).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		d.cache.Add(spec, doctor)
	}
	return &doctor, nil
}

// ListDoctors returns doctors, optionally filtered by specialization and availability.
func (d *GormDoctorDirectory) ListDoctors(ctx context.Context, spec specialization.Specialization, onlyAvailable bool) ([]models.Doctor, error) {
	query := d.DB.WithContext(ctx).Order("specialization asc, name asc")
	if spec != "" {
		query = query.Where("specialization = ?", spec)
	}
	if onlyAvailable {
		query = query.Where("is_available = ?", true)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}
