// Package message decodes control messages and routes them to widgets.
package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dasdy/neoclock/widgets"
)

const (
	TypeShow = "Show"
	TypeHide = "Hide"
	TypeMove = "Move"
)

var (
	ErrMalformed   = errors.New("malformed control message")
	ErrUnknownType = errors.New("unknown control message type")
)

// Envelope is one decoded control message addressed to the widget at index ID.
// Payload holds the kind-specific fields for widget-kind types, without type and id.
type Envelope struct {
	Type    string
	ID      int
	X, Y    uint32
	Payload json.RawMessage
	// Replayed marks envelopes fed back from the journal. It is never encoded.
	Replayed bool
}

// Generic reports whether the envelope is a Show, Hide or Move.
func (e Envelope) Generic() bool {
	switch e.Type {
	case TypeShow, TypeHide, TypeMove:
		return true
	}

	return false
}

// Decode parses a JSON control message such as {"type":"Move","id":1,"x":4,"y":8}
// or {"type":"Flyer","id":2,"text":"hi","ttl":10}.
func Decode(data []byte) (Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var env Envelope

	if err := field(fields, "type", &env.Type); err != nil {
		return Envelope{}, err
	}

	if err := field(fields, "id", &env.ID); err != nil {
		return Envelope{}, err
	}

	delete(fields, "type")
	delete(fields, "id")

	switch env.Type {
	case TypeShow, TypeHide:
	case TypeMove:
		if err := field(fields, "x", &env.X); err != nil {
			return Envelope{}, err
		}

		if err := field(fields, "y", &env.Y); err != nil {
			return Envelope{}, err
		}
	default:
		if _, ok := widgets.New(widgets.Kind(env.Type)); !ok {
			return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
		}

		payload, err := json.Marshal(fields)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		env.Payload = payload
	}

	return env, nil
}

func field(fields map[string]json.RawMessage, name string, v any) error {
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrMalformed, name)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: bad %q: %w", ErrMalformed, name, err)
	}

	return nil
}

// Encode is the inverse of Decode.
func (e Envelope) Encode() ([]byte, error) {
	fields := map[string]any{}

	if len(e.Payload) > 0 {
		if err := json.Unmarshal(e.Payload, &fields); err != nil {
			return nil, fmt.Errorf("%w: payload is not an object: %w", ErrMalformed, err)
		}
	}

	fields["type"] = e.Type
	fields["id"] = e.ID

	if e.Type == TypeMove {
		fields["x"] = e.X
		fields["y"] = e.Y
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s message: %w", e.Type, err)
	}

	return data, nil
}
