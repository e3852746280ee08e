package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
)

// errNoLongerPending marks an appointment whose status changed between the
// snapshot and the conditional write (e.g. cancelled by the patient).
var errNoLongerPending = errors.New("appointment is no longer pending")

// slot minutes a generated default time can start on.
var slotMinutes = []int{0, 15, 30, 45}

// Generated default times fall within business hours, hour 9..17 inclusive.
const (
	businessHourFirst = 9
	businessHourLast  = 17
)

// EngineConfig carries the tunables of the assignment engine. Zero values
// are replaced with defaults by NewEngine.
type EngineConfig struct {
	// Location is the local time zone used for default scheduling.
	Location *time.Location
	// DateOffsetDays is added to today when defaulting a missing preferred
	// date: 1 schedules for tomorrow, 0 for today.
	DateOffsetDays int
	// Resolver overrides the symptom keyword table, mainly for tests.
	Resolver *specialization.Resolver
	// Clock overrides the time source, mainly for tests.
	Clock func() time.Time
	// Rand overrides the generator used for default time slots.
	Rand *rand.Rand
}

// PassResult summarizes one scan-and-assign cycle.
type PassResult struct {
	Assigned int
	Failed   int
	Skipped  int
}

// Engine promotes pending appointments to confirmed: it resolves the
// symptom's specialization, picks an available doctor (or the unassigned
// sentinel), fills missing schedule defaults and performs a conditional
// status update. Failures are isolated per appointment so one bad record
// never loses the batch.
type Engine struct {
	store     storage.AppointmentStore
	directory storage.DoctorDirectory
	notifier  notify.Publisher
	resolver  *specialization.Resolver
	logger    *zap.Logger

	loc        *time.Location
	dateOffset int
	clock      func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand

	// passMu serializes passes; the periodic loop and the on-demand admin
	// trigger share one engine.
	passMu sync.Mutex
}

// NewEngine wires an assignment engine. notifier may be nil when no realtime
// delivery is configured.
func NewEngine(store storage.AppointmentStore, directory storage.DoctorDirectory, notifier notify.Publisher, logger *zap.Logger, cfg EngineConfig) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Resolver == nil {
		cfg.Resolver = specialization.NewResolver(nil)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      store,
		directory:  directory,
		notifier:   notifier,
		resolver:   cfg.Resolver,
		logger:     logger,
		loc:        cfg.Location,
		dateOffset: cfg.DateOffsetDays,
		clock:      cfg.Clock,
		rand:       cfg.Rand,
	}
}

// RunPass scans a snapshot of pending appointments and assigns each one.
// A per-appointment failure is counted and logged but does not abort the
// pass; the appointment stays pending and is retried on the next pass.
func (e *Engine) RunPass(ctx context.Context) (PassResult, error) {
	e.passMu.Lock()
	defer e.passMu.Unlock()

	var result PassResult

	pending, err := e.store.ListPending(ctx)
	if err != nil {
		return result, fmt.Errorf("listing pending appointments: %w", err)
	}

	for _, appointment := range pending {
		if err := e.assignOne(ctx, appointment); err != nil {
			if errors.Is(err, errNoLongerPending) {
				result.Skipped++
				continue
			}
			result.Failed++
			e.logger.Warn("appointment assignment failed",
				zap.String("appointmentId", appointment.ID),
				zap.Error(err))
			continue
		}
		result.Assigned++
	}

	return result, nil
}

// assignOne resolves, selects and confirms a single pending appointment.
func (e *Engine) assignOne(ctx context.Context, appointment models.Appointment) error {
	spec := e.resolver.Resolve(appointment.Reason)

	doctor, err := e.directory.FindAvailable(ctx, spec)
	if err != nil {
		return fmt.Errorf("doctor lookup for %s: %w", spec, err)
	}

	// No available doctor does not block confirmation; the sentinel name
	// guarantees every pending appointment is resolved each pass.
	doctorName := models.UnassignedDoctor
	if doctor != nil {
		doctorName = doctor.Name
	}

	fields := storage.ConfirmedFields{
		DoctorName: doctorName,
		UpdatedAt:  e.clock().UTC(),
	}
	if appointment.PreferredDate == nil {
		date := e.defaultDate()
		fields.PreferredDate = &date
	}
	if appointment.PreferredTime == nil || *appointment.PreferredTime == "" {
		slot := e.defaultTimeSlot()
		fields.PreferredTime = &slot
	}

	matched, err := e.store.ConfirmPending(ctx, appointment.ID, fields)
	if err != nil {
		return fmt.Errorf("confirming appointment: %w", err)
	}
	if !matched {
		return errNoLongerPending
	}

	if e.notifier != nil {
		e.notifier.Publish(notify.Event{
			Event:         notify.EventAppointmentConfirmed,
			UserID:        appointment.UserID,
			AppointmentID: appointment.ID,
			DoctorName:    doctorName,
			Status:        string(models.StatusConfirmed),
			Timestamp:     fields.UpdatedAt,
		})
	}

	e.logger.Info("appointment confirmed",
		zap.String("appointmentId", appointment.ID),
		zap.String("specialization", string(spec)),
		zap.String("doctor", doctorName))
	return nil
}

// defaultDate returns midnight of today+offset in the configured zone.
func (e *Engine) defaultDate() time.Time {
	day := e.clock().In(e.loc).AddDate(0, 0, e.dateOffset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, e.loc)
}

// defaultTimeSlot returns an "HH:MM" slot within business hours.
func (e *Engine) defaultTimeSlot() string {
	e.randMu.Lock()
	hour := businessHourFirst + e.rand.Intn(businessHourLast-businessHourFirst+1)
	minute := slotMinutes[e.rand.Intn(len(slotMinutes))]
	e.randMu.Unlock()
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
