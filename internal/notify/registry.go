// Package notify provides an explicit subscriber registry for import
// progress events. Subscribers register a channel per topic (typically
// an import ID) and receive every event published to that topic until
// they unsubscribe; slow subscribers are skipped rather than blocking
// the publisher.
package notify

import (
	"log"
	"sync"
	"time"
)

// Event is one progress notification
type Event struct {
	Topic     string                 `json:"topic"`
	Kind      string                 `json:"kind"` // "progress", "completed", "failed"
	Progress  float64                `json:"progress"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Subscription is a live registration; Events delivers until Cancel
type Subscription struct {
	topic    string
	Events   chan Event
	registry *Registry
}

// Cancel unsubscribes and closes the event channel
func (s *Subscription) Cancel() {
	s.registry.unsubscribe(s)
}

// Registry tracks subscribers per topic
type Registry struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]bool
}

// NewRegistry creates an empty subscriber registry
func NewRegistry() *Registry {
	return &Registry{
		subscribers: make(map[string]map[*Subscription]bool),
	}
}

// Subscribe registers a new subscriber for a topic
func (r *Registry) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic:    topic,
		Events:   make(chan Event, 32),
		registry: r,
	}

	r.mu.Lock()
	if r.subscribers[topic] == nil {
		r.subscribers[topic] = make(map[*Subscription]bool)
	}
	r.subscribers[topic][sub] = true
	count := len(r.subscribers[topic])
	r.mu.Unlock()

	log.Printf("[Notify] Subscriber registered for topic %s (total: %d)", topic, count)
	return sub
}

func (r *Registry) unsubscribe(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, exists := r.subscribers[sub.topic]
	if !exists || !subs[sub] {
		return
	}
	delete(subs, sub)
	close(sub.Events)
	if len(subs) == 0 {
		delete(r.subscribers, sub.topic)
	}
	log.Printf("[Notify] Subscriber unregistered from topic %s (remaining: %d)", sub.topic, len(subs))
}

// Notify publishes an event to every subscriber of its topic
func (r *Registry) Notify(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for sub := range r.subscribers[event.Topic] {
		select {
		case sub.Events <- event:
		default:
			// Subscriber channel full, skip rather than block
			log.Printf("[Notify] Subscriber channel full for topic %s, skipping event", event.Topic)
		}
	}
}

// SubscriberCount returns the number of live subscribers for a topic
func (r *Registry) SubscriberCount(topic string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers[topic])
}
