package layout

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/errors"
)

// Params carries strategy-specific tuning values. Values may be numbers,
// booleans or their string forms as they arrive from the command line.
type Params map[string]any

// ParseParams builds Params from key=value pairs.
func ParseParams(pairs []string) (Params, error) {
	p := make(Params, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout param %q: want key=value", kv)
		}
		p[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return p, nil
}

// Float returns the numeric value of key, or def when it is absent or not a
// number.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the boolean value of key, or def when it is absent or not a
// boolean.
func (p Params) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// String returns the string value of key, or def when it is absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return def
}
