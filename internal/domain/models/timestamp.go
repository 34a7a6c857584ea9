// internal/domain/models/timestamp.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a lenient JSON time.
//
// The remote API has returned RFC 3339 strings, RFC 3339 strings with
// fractional seconds, unix milliseconds, empty strings and null for the same
// field. Anything empty or unrecognised decodes to the zero time instead of
// failing the whole payload, so it displays as the caller's fallback.
type Timestamp struct {
	time.Time
}

// DisplayLayout renders dates as "January 2, 2006 at 03:04 PM".
const DisplayLayout = "January 2, 2006 at 03:04 PM"

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			// Floats, booleans, objects: no usable date.
			t.Time = time.Time{}
			return nil
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Display formats the timestamp for people, returning fallback when unset.
func (t Timestamp) Display(fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Time.Format(DisplayLayout)
}
