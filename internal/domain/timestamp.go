package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// legacyLayout is the naive ISO form (no zone) written by the first version
// of the service. Fractional seconds are accepted on parse.
const legacyLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time that serialises as RFC3339 and still reads the
// legacy zone-less form as local time. A space in place of the "T" date/time
// separator is accepted in both forms.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	if len(raw) > 10 && raw[10] == ' ' {
		raw = raw[:10] + "T" + raw[11:]
	}

	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}

	parsed, err := time.ParseInLocation(legacyLayout, raw, time.Local)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}
