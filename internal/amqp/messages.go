package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecocharge/internal/core"
)

type EventType string

const (
	SessionCreated EventType = "session.created"
	SessionDeleted EventType = "session.deleted"
)

// SessionEvent announces a confirmed write. Created events carry the full
// record so consumers never have to read back from the primary store.
type SessionEvent struct {
	Type      EventType     `json:"type"`
	ID        string        `json:"id"`
	Session   *core.Session `json:"session,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewSessionCreated(s core.Session) *SessionEvent {
	return &SessionEvent{Type: SessionCreated, ID: s.ID, Session: &s, Timestamp: time.Now()}
}

func NewSessionDeleted(id string) *SessionEvent {
	return &SessionEvent{Type: SessionDeleted, ID: id, Timestamp: time.Now()}
}

func (e *SessionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SessionEventFromJSON decodes and checks an event body.
func SessionEventFromJSON(data []byte) (*SessionEvent, error) {
	var e SessionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, errors.New("event without id")
	}
	switch e.Type {
	case SessionCreated:
		if e.Session == nil || e.Session.ID != e.ID {
			return nil, fmt.Errorf("created event %s without matching session", e.ID)
		}
	case SessionDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	return &e, nil
}
