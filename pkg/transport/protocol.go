// Package transport relays committed operation lists between subscribers
// of a document. It is a broadcast surface, not a convergence engine: no
// transformation against concurrent edits happens here; embedders that
// need that serialize their writers.
//
// The payload is the delta wire format itself, so anything that speaks
// the codec can follow a document over the in-memory hub or WebSocket.
package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coreseekdev/stilus/pkg/delta"
)

// MessageType discriminates protocol messages.
type MessageType string

const (
	// Client → server.
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypeOperation   MessageType = "operation"

	// Server → client.
	MessageTypeWelcome         MessageType = "welcome"
	MessageTypeSnapshot        MessageType = "snapshot"
	MessageTypeRemoteOperation MessageType = "remote_operation"
	MessageTypeAck             MessageType = "ack"
	MessageTypeError           MessageType = "error"
)

// Message is the envelope for every protocol exchange.
type Message struct {
	Type      MessageType   `json:"type"`
	SessionID string        `json:"session_id,omitempty"`
	DocID     string        `json:"doc_id,omitempty"`
	Revision  int64         `json:"revision,omitempty"`
	Timestamp int64         `json:"timestamp"`
	Ops       delta.Ops     `json:"ops,omitempty"`
	Delta     []delta.Entry `json:"delta,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// NewMessage stamps an envelope of the given type.
func NewMessage(t MessageType, docID string) *Message {
	return &Message{
		Type:      t,
		DocID:     docID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Encode renders the message as JSON.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a JSON message.
func DecodeMessage(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// newSessionID mints a subscriber identity.
func newSessionID() string {
	return uuid.NewString()
}
