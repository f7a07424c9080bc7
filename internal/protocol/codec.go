// internal/protocol/codec.go
package protocol

import (
	"encoding/json"
	"fmt"
)

// EncodeAction marshals a client action for the wire.
func EncodeAction(a Action) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("%w: encode action %s: %v", ErrSerialization, a.Type, err)
	}
	return data, nil
}

// DecodeAction unmarshals and validates a client action.
func DecodeAction(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	switch a.Type {
	case ActionInit:
		if a.Init == nil {
			return Action{}, fmt.Errorf("%w: init without payload", ErrSerialization)
		}
	case ActionDrawCard, ActionEndTurn:
		if a.Init != nil {
			return Action{}, fmt.Errorf("%w: %s carries an init payload", ErrSerialization, a.Type)
		}
	default:
		return Action{}, fmt.Errorf("%w: unknown action type %q", ErrSerialization, a.Type)
	}
	return a, nil
}

// EncodeResponse marshals a server response for the wire.
func EncodeResponse(r Response) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: encode response %s: %v", ErrSerialization, r.Type, err)
	}
	return data, nil
}

// DecodeResponse unmarshals a server response and checks its payload matches its type.
func DecodeResponse(data []byte) (Response, error) {
	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	var ok bool
	switch r.Type {
	case ResponseInitial:
		ok = r.Initial != nil
	case ResponseDrawCard:
		ok = r.Card != nil
	case ResponseTurnChanged:
		ok = r.Turn != nil
	case ResponsePresence:
		ok = r.Presence != nil
	case ResponseRejected:
		ok = r.Error != nil
	default:
		return Response{}, fmt.Errorf("%w: unknown response type %q", ErrSerialization, r.Type)
	}
	if !ok {
		return Response{}, fmt.Errorf("%w: %s response without payload", ErrSerialization, r.Type)
	}
	return r, nil
}
