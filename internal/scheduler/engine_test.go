package scheduler

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func confirmedFieldsForTest() storage.ConfirmedFields {
	return storage.ConfirmedFields{
		DoctorName: models.UnassignedDoctor,
		UpdatedAt:  time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func pendingAppointment(id, reason string) *models.Appointment {
	a := &models.Appointment{
		UserID: "user-" + id,
		Reason: reason,
		Status: models.StatusPending,
	}
	a.ID = id
	return a
}

func newTestEngine(store *mockStore, dir *mockDirectory, notifier notify.Publisher, cfg EngineConfig) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	return NewEngine(store, dir, notifier, nil, cfg)
}

func TestRunPass_AssignsDoctorBySpecialization(t *testing.T) {
	store := newMockStore(pendingAppointment("a1", "chest pain and shortness of breath"))
	dir := newMockDirectory()
	dir.add("Dr. Vikram Joshi", specialization.Cardiologist)

	engine := newTestEngine(store, dir, nil, EngineConfig{})
	result, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Assigned != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 1 assigned", result)
	}

	got := store.get("a1")
	if got.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
	if got.DoctorName != "Dr. Vikram Joshi" {
		t.Errorf("doctorName = %q, want Dr. Vikram Joshi", got.DoctorName)
	}
	if got.PreferredDate == nil || got.PreferredTime == nil {
		t.Fatal("expected schedule defaults to be filled")
	}
}

func TestRunPass_SentinelWhenNoDoctorAvailable(t *testing.T) {
	store := newMockStore(pendingAppointment("a1", "kidney trouble"))
	engine := newTestEngine(store, newMockDirectory(), nil, EngineConfig{})

	result, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Assigned != 1 {
		t.Fatalf("result = %+v, want 1 assigned", result)
	}

	got := store.get("a1")
	if got.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
	if got.DoctorName != models.UnassignedDoctor {
		t.Errorf("doctorName = %q, want sentinel %q", got.DoctorName, models.UnassignedDoctor)
	}
}

func TestRunPass_PreservesPresetPreferredFields(t *testing.T) {
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	slot := "14:30"
	a := pendingAppointment("a1", "fever")
	a.PreferredDate = &date
	a.PreferredTime = &slot

	store := newMockStore(a)
	dir := newMockDirectory()
	dir.add("Dr. Rohan Gupta", specialization.GeneralPhysician)

	engine := newTestEngine(store, dir, nil, EngineConfig{})
	if _, err := engine.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	got := store.get("a1")
	if !got.PreferredDate.Equal(date) {
		t.Errorf("preferredDate changed: %v", got.PreferredDate)
	}
	if *got.PreferredTime != "14:30" {
		t.Errorf("preferredTime changed: %q", *got.PreferredTime)
	}
	if got.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
}

func TestRunPass_SecondPassIsNoOp(t *testing.T) {
	store := newMockStore(
		pendingAppointment("a1", "rash"),
		pendingAppointment("a2", "cough"),
	)
	engine := newTestEngine(store, newMockDirectory(), nil, EngineConfig{})

	first, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.Assigned != 2 {
		t.Fatalf("first pass assigned %d, want 2", first.Assigned)
	}

	second, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Assigned != 0 || second.Failed != 0 || second.Skipped != 0 {
		t.Fatalf("second pass = %+v, want all zero", second)
	}
}

func TestRunPass_IsolatesPerItemFailures(t *testing.T) {
	store := newMockStore(
		pendingAppointment("a1", "chest pain"),
		pendingAppointment("a2", "headache"),
		pendingAppointment("a3", "rash"),
	)
	dir := newMockDirectory()
	dir.failOnCall = 2

	engine := newTestEngine(store, dir, nil, EngineConfig{})
	result, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if result.Assigned != 2 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 2 assigned / 1 failed", result)
	}
	if store.get("a1").Status != models.StatusConfirmed {
		t.Error("a1 should be confirmed")
	}
	if store.get("a2").Status != models.StatusPending {
		t.Error("a2 should remain pending after the failed lookup")
	}
	if store.get("a3").Status != models.StatusConfirmed {
		t.Error("a3 should be confirmed despite the earlier failure")
	}
}

func TestRunPass_PersistenceErrorCountsAsFailed(t *testing.T) {
	store := newMockStore(
		pendingAppointment("a1", "fever"),
		pendingAppointment("a2", "fever"),
	)
	store.confirmErr["a1"] = context.DeadlineExceeded

	engine := newTestEngine(store, newMockDirectory(), nil, EngineConfig{})
	result, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Assigned != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 1 assigned / 1 failed", result)
	}
}

func TestRunPass_RacedCancellationIsSkipped(t *testing.T) {
	a := pendingAppointment("a1", "fever")
	store := newMockStore(a)
	engine := newTestEngine(store, newMockDirectory(), nil, EngineConfig{})

	// Snapshot sees the appointment as pending, then the patient cancels
	// before the conditional write lands.
	snapshot, err := store.ListPending(context.Background())
	if err != nil || len(snapshot) != 1 {
		t.Fatalf("snapshot: %v, %d items", err, len(snapshot))
	}
	a.Status = models.StatusCancelled

	result, err := engine.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	// ListPending inside the pass no longer returns it, so nothing happens;
	// the compare-and-set path is exercised directly below.
	if result.Assigned != 0 {
		t.Fatalf("result = %+v, want nothing assigned", result)
	}
	if a.Status != models.StatusCancelled {
		t.Fatalf("status = %q, cancelled appointment must not be resurrected", a.Status)
	}

	matched, err := store.ConfirmPending(context.Background(), "a1", confirmedFieldsForTest())
	if err != nil {
		t.Fatalf("ConfirmPending: %v", err)
	}
	if matched {
		t.Fatal("conditional update matched a cancelled appointment")
	}
}

func TestRunPass_DefaultDateHonorsZoneAndOffset(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}
	// 21:00 UTC is already the next day in Kolkata (+05:30).
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

	store := newMockStore(pendingAppointment("a1", "fever"))
	engine := newTestEngine(store, newMockDirectory(), nil, EngineConfig{
		Location:       kolkata,
		DateOffsetDays: 1,
		Clock:          fixedClock(now),
	})

	if _, err := engine.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	got := store.get("a1")
	want := time.Date(2026, 3, 12, 0, 0, 0, 0, kolkata)
	if got.PreferredDate == nil || !got.PreferredDate.Equal(want) {
		t.Fatalf("preferredDate = %v, want %v", got.PreferredDate, want)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt = %v, want clock time %v", got.UpdatedAt, now)
	}
}

func TestRunPass_GeneratedTimeWithinBusinessHours(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		store := newMockStore(pendingAppointment("a1", "fever"))
		engine := newTestEngine(store, newMockDirectory(), nil, EngineConfig{Rand: rng})
		if _, err := engine.RunPass(context.Background()); err != nil {
			t.Fatalf("RunPass: %v", err)
		}

		slot := store.get("a1").PreferredTime
		if slot == nil {
			t.Fatal("expected a generated time slot")
		}
		parts := strings.Split(*slot, ":")
		if len(parts) != 2 {
			t.Fatalf("malformed slot %q", *slot)
		}
		hour, _ := strconv.Atoi(parts[0])
		minute, _ := strconv.Atoi(parts[1])
		if hour < 9 || hour > 17 {
			t.Fatalf("hour %d outside business hours in slot %q", hour, *slot)
		}
		if minute != 0 && minute != 15 && minute != 30 && minute != 45 {
			t.Fatalf("minute %d not on a quarter boundary in slot %q", minute, *slot)
		}
	}
}

func TestRunPass_PublishesConfirmationEvent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newMockStore(pendingAppointment("a1", "chest pain"))
	dir := newMockDirectory()
	dir.add("Dr. Neha Reddy", specialization.Cardiologist)
	notifier := &captureNotifier{}

	engine := newTestEngine(store, dir, notifier, EngineConfig{Clock: fixedClock(now)})
	if _, err := engine.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	events := notifier.all()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Event != notify.EventAppointmentConfirmed {
		t.Errorf("event = %q, want %q", e.Event, notify.EventAppointmentConfirmed)
	}
	if e.AppointmentID != "a1" || e.UserID != "user-a1" {
		t.Errorf("routing fields wrong: %+v", e)
	}
	if e.DoctorName != "Dr. Neha Reddy" || e.Status != string(models.StatusConfirmed) {
		t.Errorf("payload fields wrong: %+v", e)
	}
	if !e.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", e.Timestamp, now)
	}
}

func TestRunPass_EmptyReasonUsesFallbackSpecialization(t *testing.T) {
	store := newMockStore(pendingAppointment("a1", ""))
	dir := newMockDirectory()
	dir.add("Dr. Priya Desai", specialization.GeneralPhysician)

	engine := newTestEngine(store, dir, nil, EngineConfig{})
	if _, err := engine.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if got := store.get("a1").DoctorName; got != "Dr. Priya Desai" {
		t.Fatalf("doctorName = %q, want the general physician", got)
	}
}
