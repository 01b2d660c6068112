// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Session events (server -> client). These are the auth-state-change
	// push notifications the dashboard client reconciles against.
	EventTypeSignedIn    EventType = "session:signed_in"
	EventTypeSignedOut   EventType = "session:signed_out"
	EventTypeForceLogout EventType = "session:force_logout"

	// Location events
	EventTypeLocationRecorded EventType = "location:recorded"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// NewMessage builds a timestamped message.
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ToJSON serializes the message
func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a raw websocket frame into a WSMessage
func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Subscription channels that clients can subscribe to
type ChannelType string

const (
	ChannelSession  ChannelType = "session"
	ChannelLocation ChannelType = "location"
	ChannelSystem   ChannelType = "system"
)

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to stop receiving channel events
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// LocationEventData for location events
type LocationEventData struct {
	AccountID  string  `json:"account_id"`
	SampleID   string  `json:"sample_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	CapturedAt int64   `json:"captured_at"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionEventData for session lifecycle events
type SessionEventData struct {
	AccountID string `json:"account_id"`
	SessionID string `json:"session_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}
