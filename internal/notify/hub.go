package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event names pushed to connected clients.
const (
	EventNewVitals            = "new_vitals"
	EventNewAppointment       = "new_appointment"
	EventAppointmentConfirmed = "appointment_confirmed"
)

// Event is a realtime notification for a single user. Delivery is
// at-least-once and best-effort: the persisted record is authoritative and a
// lost event is never an error.
type Event struct {
	Event         string      `json:"event"`
	UserID        string      `json:"userId,omitempty"`
	AppointmentID string      `json:"appointmentId,omitempty"`
	DoctorName    string      `json:"doctorName,omitempty"`
	Status        string      `json:"status,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Data          interface{} `json:"data,omitempty"`
}

// Publisher is the capability the assignment engine and the handlers need.
type Publisher interface {
	Publish(event Event)
}

// subscriber buffer size; a subscriber that falls this far behind loses events.
const subscriberBuffer = 16

// Hub fans events out to the per-user channels of connected clients.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Event]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]map[chan Event]struct{}),
		logger: logger,
	}
}

// Subscribe registers a channel for the user's events. The returned cancel
// function removes the subscription and closes the channel; it is safe to
// call more than once.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Event]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, userID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of event.UserID, or to all
// subscribers when UserID is empty. It never blocks: a subscriber with a full
// buffer is skipped.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if event.UserID != "" {
		h.deliver(h.subs[event.UserID], event)
		return
	}
	for _, set := range h.subs {
		h.deliver(set, event)
	}
}

func (h *Hub) deliver(set map[chan Event]struct{}, event Event) {
	for ch := range set {
		select {
		case ch <- event:
		default:
			h.logger.Debug("dropping event for slow subscriber",
				zap.String("event", event.Event),
				zap.String("userId", event.UserID))
		}
	}
}
