package action

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Sentinel errors for the JSON codec.
var (
	// ErrInvalidJSON is returned when a dispatch request is not valid JSON.
	ErrInvalidJSON = errors.New("invalid action JSON")

	// ErrMissingType is returned when a dispatch request has no string type.
	ErrMissingType = errors.New("action type missing or not a string")
)

// DecodeJSON parses an inbound dispatch request of the form
//
//	{"type": "user.reload", "payload": ..., "meta": {...}}
//
// into an Action. Metadata entries preserve document order.
func DecodeJSON(data []byte) (Action, error) {
	if !gjson.ValidBytes(data) {
		return Action{}, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)

	typ := doc.Get("type")
	if !typ.Exists() || typ.Type != gjson.String || typ.Str == "" {
		return Action{}, ErrMissingType
	}

	a := Action{Type: typ.String(), Payload: doc.Get("payload").Value()}

	if meta := doc.Get("meta"); meta.IsObject() {
		m := newMeta()
		meta.ForEach(func(key, value gjson.Result) bool {
			m.set(key.String(), value.Value())
			return true
		})
		a.meta = m
	}

	return a, nil
}

// EncodeJSON renders an Action back into the wire form consumed by
// DecodeJSON. Metadata entries are written in insertion order.
func EncodeJSON(a Action) ([]byte, error) {
	out := []byte(`{}`)

	out, err := sjson.SetBytes(out, "type", a.Type)
	if err != nil {
		return nil, fmt.Errorf("encode action type: %w", err)
	}

	if a.Payload != nil {
		out, err = sjson.SetBytes(out, "payload", a.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode action payload: %w", err)
		}
	}

	for _, key := range a.meta.Keys() {
		value, _ := a.meta.Get(key)
		out, err = sjson.SetBytes(out, "meta."+escapePath(key), value)
		if err != nil {
			return nil, fmt.Errorf("encode action meta %q: %w", key, err)
		}
	}

	return out, nil
}

// escapePath escapes gjson path syntax in a literal key.
func escapePath(key string) string {
	var b []byte
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			b = append(b, '\\')
		}
		b = append(b, key[i])
	}
	return string(b)
}
