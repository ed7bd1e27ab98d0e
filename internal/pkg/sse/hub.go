package sse

import (
	"sync"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

// TopicAttendance carries check-in and check-out events for live dashboards.
const TopicAttendance = "attendance"

// subscriberBuffer is how many events a slow subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 16

// Event is one server-sent event. Name becomes the SSE "event:" field.
type Event struct {
	Topic string
	Name  string
	Data  interface{}
}

// Hub fans events out to subscribers of a topic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for topic. The returned cleanup closes the
// channel and may be called more than once.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish never blocks. Subscribers with a full buffer miss the event.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Topic = topic
	for ch := range h.subscribers[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// TotalSubscribers returns the number of subscribers across all topics.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

// AttendanceRelay publishes attendance events onto TopicAttendance.
type AttendanceRelay struct {
	hub *Hub
}

func NewAttendanceRelay(hub *Hub) *AttendanceRelay {
	return &AttendanceRelay{hub: hub}
}

// Publish implements attendance.EventPublisher.
func (r *AttendanceRelay) Publish(eventType string, event attendance.Event) {
	r.hub.Publish(TopicAttendance, Event{Name: eventType, Data: event})
}
