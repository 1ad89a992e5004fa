package event

import (
	"fmt"

	"github.com/goccy/go-json"
)

// DecodePayload returns the payload of evt as T. Events published on the
// MemoryBus already carry T (or *T); payloads that went through JSON, such as
// replayed or externally built events, arrive as maps and are re-decoded.
func DecodePayload[T any](evt Event) (T, error) {
	var out T
	switch v := evt.Payload.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
		return out, fmt.Errorf(ErrMsgNilPayload, evt.Type)
	case nil:
		return out, fmt.Errorf(ErrMsgNilPayload, evt.Type)
	}

	data, err := json.Marshal(evt.Payload)
	if err != nil {
		return out, fmt.Errorf(ErrMsgDecodePayload, evt.Type, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf(ErrMsgDecodePayload, evt.Type, err)
	}
	return out, nil
}
