package model

import (
	"encoding/json"
	"testing"
)

func TestNumberUnmarshalLenient(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		value float64
	}{
		{in: `0.7`, valid: true, value: 0.7},
		{in: `10`, valid: true, value: 10},
		{in: `"12.5"`, valid: true, value: 12.5},
		{in: `null`},
		{in: `"n/a"`},
		{in: `true`},
		{in: `{"x":1}`},
		{in: `[1,2]`},
	}
	for _, tc := range cases {
		var n Number
		if err := json.Unmarshal([]byte(tc.in), &n); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if n.Valid != tc.valid || n.Value != tc.value {
			t.Fatalf("%s: got %+v", tc.in, n)
		}
	}
}

func TestTextKeepsNonStringsAsJSON(t *testing.T) {
	var row struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
	}
	raw := `{"a":"accept","b":{"PRICE_A": 6, "treatment":"LP"}}`
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row.A.Or("-") != "accept" {
		t.Fatalf("unexpected a: %+v", row.A)
	}
	if row.B.Or("-") != `{"PRICE_A":6,"treatment":"LP"}` {
		t.Fatalf("unexpected b: %+v", row.B)
	}
	if row.C.Valid || row.C.Or("-") != "-" {
		t.Fatalf("expected c unset, got %+v", row.C)
	}
}

func TestRoundSnapshotEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `{"unrelated":1}`, `{"frame":null,"q":null}`} {
		var snap RoundSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			t.Fatalf("%s: unmarshal: %v", raw, err)
		}
		if !snap.Empty() {
			t.Fatalf("%s: expected empty snapshot, got %+v", raw, snap)
		}
	}
	var snap RoundSnapshot
	if err := json.Unmarshal([]byte(`{"q":0}`), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Empty() {
		t.Fatalf("a zero quantity is still round data")
	}
}
