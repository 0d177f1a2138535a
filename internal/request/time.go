package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Time is a point in a track. The zero value is unset.
//
// In JSON it is a number of seconds, a numeric string ("90") or a clock
// string ("1:30", "1:02:03.5"). null and "" leave it unset.
type Time struct {
	Seconds float64
	Set     bool
}

// At returns a set Time.
func At(seconds float64) Time { return Time{Seconds: seconds, Set: true} }

// ParseTime parses seconds or an m:s / h:m:s clock value. An empty string
// returns an unset Time.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Time{}, fmt.Errorf("request: time %q: too many fields: %w", s, ErrInvalidRequest)
	}
	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return Time{}, fmt.Errorf("request: time %q: bad seconds: %w", s, ErrInvalidRequest)
	}
	if len(parts) > 1 && secs >= 60 {
		return Time{}, fmt.Errorf("request: time %q: seconds must be below 60: %w", s, ErrInvalidRequest)
	}

	total := secs
	scale := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Time{}, fmt.Errorf("request: time %q: bad field %q: %w", s, parts[i], ErrInvalidRequest)
		}
		if i > 0 && n >= 60 {
			return Time{}, fmt.Errorf("request: time %q: minutes must be below 60: %w", s, ErrInvalidRequest)
		}
		total += float64(n) * scale
		scale *= 60
	}
	return At(total), nil
}

func (t Time) String() string {
	if !t.Set {
		return "end"
	}
	// Round to the printed millisecond first so seconds never read 60.000.
	ms := int64(math.Round(t.Seconds * 1000))
	sign := ""
	if ms < 0 {
		sign, ms = "-", -ms
	}
	return fmt.Sprintf("%s%d:%06.3f", sign, ms/60000, float64(ms%60000)/1000)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Time{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseTime(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("request: time must be a number or string: %w", ErrInvalidRequest)
	}
	*t = At(f)
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if !t.Set {
		return []byte("null"), nil
	}
	return json.Marshal(t.Seconds)
}
