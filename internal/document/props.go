// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Props is a semantic key/value map used for module content, design and
// advanced settings. It always serializes as a JSON object: consumers treat
// a missing key differently from an empty list, so an empty map must never
// be written as [] or null.
type Props map[string]any

var errPropsArray = errors.New("props: expected object, got non-empty array")

// MarshalJSON writes {} for nil or empty maps.
func (p Props) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

// UnmarshalJSON accepts an object, null, or an empty array. Older exporters
// wrote empty maps as [], which decodes to an empty Props.
func (p *Props) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Props{}
		return nil
	}
	if trimmed[0] == '[' {
		var list []any
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) != 0 {
			return errPropsArray
		}
		*p = Props{}
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*p = Props(m)
	return nil
}

// Clone deep-copies the map including nested maps and slices.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case Props:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// String returns the value for key formatted as a string. Missing and nil
// values report ok=false.
func (p Props) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	return Stringify(v), true
}

// Stringify formats scalar values the way they are emitted into markup.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

