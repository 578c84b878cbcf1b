package backend

import (
	"bytes"
	"encoding/json"

	"github.com/verte-zerg/channelsim/internal/model"
)

// resultRowWire accepts acceptanceRate, the key the simulation service emits,
// as a fallback for acceptance.
type resultRowWire struct {
	model.ResultRow
	AcceptanceRate model.Number `json:"acceptanceRate"`
}

// decodeSnapshot never fails. A body that is not a JSON object yields the
// empty snapshot and malformed=true; an absent body or null is simply empty.
func decodeSnapshot(data []byte) (snap model.RoundSnapshot, malformed bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return model.RoundSnapshot{}, false
	}
	if data[0] != '{' {
		return model.RoundSnapshot{}, true
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.RoundSnapshot{}, true
	}
	return snap, false
}

// decodeResults never fails. Anything other than a JSON array yields an
// empty slice and malformed=true. Elements that are not objects become rows
// with every field unset so receipt order is kept.
func decodeResults(data []byte) (rows []model.ResultRow, malformed bool) {
	var elems []json.RawMessage
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return []model.ResultRow{}, true
	}
	if err := json.Unmarshal(data, &elems); err != nil {
		return []model.ResultRow{}, true
	}
	rows = make([]model.ResultRow, 0, len(elems))
	for _, elem := range elems {
		var wire resultRowWire
		if err := json.Unmarshal(elem, &wire); err != nil {
			malformed = true
			rows = append(rows, model.ResultRow{})
			continue
		}
		row := wire.ResultRow
		if !row.Acceptance.Valid {
			row.Acceptance = wire.AcceptanceRate
		}
		rows = append(rows, row)
	}
	return rows, malformed
}
