package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// localDateTime is the offset-less ISO format the backend emits for
// LocalDateTime columns. Fractional seconds are optional.
const localDateTime = "2006-01-02T15:04:05.999999999"

// Timestamp is a time.Time that also accepts timestamps without a zone
// offset, interpreting them as UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(localDateTime, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp: unsupported format %q", raw)
	}
	t.Time = parsed
	return nil
}
