package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeSessionStarted = "session_started"
	TypeGameFinished   = "game_finished"
	TypeSessionClosed  = "session_closed"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// SessionPayload is the payload for the "session_started" and "session_closed" events.
type SessionPayload struct {
	SessionID  string `json:"session_id"`
	PlayerID   string `json:"player_id"`
	Difficulty string `json:"difficulty"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	SessionID    string `json:"session_id"`
	Outcome      string `json:"outcome"`
	Winner       string `json:"winner,omitempty"`
	Difficulty   string `json:"difficulty"`
	Board        string `json:"board"`
	PlayerWins   int    `json:"player_wins"`
	ComputerWins int    `json:"computer_wins"`
	Draws        int    `json:"draws"`
}

//go:generate mockgen -source=events.go -destination=mock/publisher.go -package=mock Publisher

// Publisher fans game events out to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
