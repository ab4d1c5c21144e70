package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// Timestamp is a point in time as reported by the remote service. The service does not
// always attach a zone offset, so decoding accepts RFC 3339 as well as zone-less ISO 8601,
// the latter interpreted as UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := cast.ToTimeE(raw)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}

	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
