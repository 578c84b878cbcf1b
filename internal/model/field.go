package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number is an optional numeric field decoded leniently from backend JSON.
// Numbers and numeric strings are accepted; anything else leaves it unset.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf returns a set Number.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Or returns the value, or def when unset.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*n = NumberOf(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*n = NumberOf(v)
	return nil
}

// Text is an optional text field. JSON strings are kept verbatim; other
// JSON values are kept as compact JSON text.
type Text struct {
	Value string
	Valid bool
}

// TextOf returns a set Text.
func TextOf(s string) Text {
	return Text{Value: s, Valid: true}
}

// Or returns the value, or def when unset.
func (t Text) Or(def string) string {
	if !t.Valid {
		return def
	}
	return t.Value
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*t = TextOf(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil
	}
	*t = TextOf(buf.String())
	return nil
}
