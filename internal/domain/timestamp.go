package domain

import (
	"encoding/json"
	"time"
)

// DateConvertible is the shape of the document store's timestamp wrapper.
type DateConvertible interface {
	ToDate() (time.Time, error)
}

var epoch = time.Unix(0, 0).UTC()

// Epoch is the sentinel returned for every unusable timestamp value. Keeping
// it a defined instant (and not a zero time.Time) gives malformed documents a
// total order below every real date.
func Epoch() time.Time {
	return epoch
}

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceTime converts any stored date representation to a time.Time. It is
// total: nil, wrappers whose conversion fails, unparseable strings and every
// unknown shape all coerce to the epoch sentinel. It never panics.
func CoerceTime(v any) time.Time {
	switch val := v.(type) {
	case nil:
		return epoch
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return epoch
		}
		return *val
	case DateConvertible:
		t, err := val.ToDate()
		if err != nil {
			return epoch
		}
		return t
	case int:
		return fromMillis(int64(val))
	case int32:
		return fromMillis(int64(val))
	case int64:
		return fromMillis(val)
	case float64:
		return fromMillis(int64(val))
	case json.Number:
		if ms, err := val.Int64(); err == nil {
			return fromMillis(ms)
		}
		return epoch
	case string:
		for _, layout := range stringLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
		return epoch
	case map[string]any:
		// Alternate wire shape: {"seconds": <epoch seconds>}.
		if secs, ok := numeric(val["seconds"]); ok {
			return time.Unix(secs, 0).UTC()
		}
		return epoch
	default:
		return epoch
	}
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func numeric(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
