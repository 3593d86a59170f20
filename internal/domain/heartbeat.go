package domain

import (
	"bytes"
	"encoding/json"
)

type Packet struct {
	Status Status  `json:"status"`
	IPAddr *string `json:"ip_addr"`
}

type HelloResponse struct {
	ID string
}

// UnmarshalJSON accepts string and numeric ids; both are kept in their
// textual form.
func (h *HelloResponse) UnmarshalJSON(data []byte) error {
	var body struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	raw := bytes.TrimSpace(body.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		h.ID = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		h.ID = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	h.ID = n.String()
	return nil
}

// Update is an optional payload pushed by the server in a heartbeat response.
type Update struct {
	Present bool
	Payload json.RawMessage
}

type HeartbeatResponse struct {
	Update Update
}

// UnmarshalJSON never fails on the update field itself: a missing, falsy or
// undecodable value is reported as no update.
func (h *HeartbeatResponse) UnmarshalJSON(data []byte) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	h.Update = Update{}
	raw, ok := body["update"]
	if !ok || !truthy(raw) {
		return nil
	}

	h.Update = Update{Present: true, Payload: append(json.RawMessage(nil), raw...)}
	return nil
}

func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}
