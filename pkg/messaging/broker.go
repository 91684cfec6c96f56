package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// SessionChannel returns the pub/sub room channel for a session. Every
// observer joined to the session subscribes to this channel; the state
// machine publishes to it on every visible change.
func SessionChannel(sessionID string) string {
	return "session:" + sessionID
}

// EmergencyChannel is the broadcast channel for adverse-effect escalations.
const EmergencyChannel = "emergency"
