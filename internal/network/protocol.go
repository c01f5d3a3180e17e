//START OF FILE triggerhappy/internal/network/protocol.go
package network

import (
	"encoding/json"
	"fmt"
)

// Message is the envelope for every frame in both directions. Type routes
// the message, Payload is decoded later by whoever handles that type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const MaxMessageSize = 64 * 1024

// NewMessage marshals payload into a Message of the given type. A nil
// payload produces an empty object.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType, Payload: json.RawMessage(`{}`)}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Decode unmarshals the payload into v. An empty payload leaves v untouched.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", m.Type, err)
	}
	return nil
}

//END OF FILE triggerhappy/internal/network/protocol.go
