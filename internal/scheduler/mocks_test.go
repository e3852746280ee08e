package scheduler

import (
	"context"
	"errors"
	"sync"

	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
)

// ── Mock AppointmentStore ──

type mockStore struct {
	mu           sync.Mutex
	appointments []*models.Appointment
	listErr      error
	confirmErr   map[string]error
}

func newMockStore(appointments ...*models.Appointment) *mockStore {
	return &mockStore{
		appointments: appointments,
		confirmErr:   make(map[string]error),
	}
}

func (m *mockStore) ListPending(_ context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var pending []models.Appointment
	for _, a := range m.appointments {
		if a.Status == models.StatusPending {
			pending = append(pending, *a)
		}
	}
	return pending, nil
}

func (m *mockStore) ConfirmPending(_ context.Context, id string, fields storage.ConfirmedFields) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.confirmErr[id]; err != nil {
		return false, err
	}
	for _, a := range m.appointments {
		if a.ID != id {
			continue
		}
		if a.Status != models.StatusPending {
			return false, nil
		}
		a.Status = models.StatusConfirmed
		a.DoctorName = fields.DoctorName
		a.UpdatedAt = fields.UpdatedAt
		if fields.PreferredDate != nil {
			a.PreferredDate = fields.PreferredDate
		}
		if fields.PreferredTime != nil {
			a.PreferredTime = fields.PreferredTime
		}
		return true, nil
	}
	return false, nil
}

func (m *mockStore) get(id string) *models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ── Mock DoctorDirectory ──

type mockDirectory struct {
	mu      sync.Mutex
	doctors map[specialization.Specialization]models.Doctor
	calls   int
	// failOnCall makes the n-th FindAvailable call (1-based) return an error.
	failOnCall int
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{doctors: make(map[specialization.Specialization]models.Doctor)}
}

func (m *mockDirectory) add(name string, spec specialization.Specialization) {
	m.doctors[spec] = models.Doctor{Name: name, Specialization: spec, IsAvailable: true}
}

func (m *mockDirectory) FindAvailable(_ context.Context, spec specialization.Specialization) (*models.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failOnCall > 0 && m.calls == m.failOnCall {
		return nil, errors.New("directory unreachable")
	}
	if doctor, ok := m.doctors[spec]; ok {
		return &doctor, nil
	}
	return nil, nil
}

// ── Capturing notifier ──

type captureNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *captureNotifier) Publish(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) all() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Event(nil), n.events...)
}
