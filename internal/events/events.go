package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	AlumniCreated EventType = "alumni.created"
	AlumniUpdated EventType = "alumni.updated"
	AlumniDeleted EventType = "alumni.deleted"
	AlumniSeeded  EventType = "alumni.seeded"
)

const (
	EventSource  = "alumni-service"
	EventVersion = "1.0"
)

// Event is the envelope published for every directory change
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type AlumniDeletedData struct {
	ID uint `json:"id"`
}

type AlumniSeededData struct {
	Created int   `json:"created"`
	Deleted int64 `json:"deleted"`
	Total   int64 `json:"total"`
}

// EventPublisher publishes lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
