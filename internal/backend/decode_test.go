package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResultsAcceptanceRateFallback(t *testing.T) {
	rows, malformed := decodeResults([]byte(`[
		{"frame":"LP","acceptanceRate":0.75},
		{"frame":"TPT","acceptance":0.4,"acceptanceRate":0.9}
	]`))
	assert.False(t, malformed)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Acceptance.Valid)
	assert.Equal(t, 0.75, rows[0].Acceptance.Value)
	assert.Equal(t, 0.4, rows[1].Acceptance.Value)
}

func TestDecodeResultsNonObjectElement(t *testing.T) {
	rows, malformed := decodeResults([]byte(`[{"frame":"LP"}, 7, null, {"frame":"QD"}]`))
	assert.True(t, malformed)
	require.Len(t, rows, 4)
	assert.Equal(t, "LP", rows[0].Frame.Value)
	assert.False(t, rows[1].Frame.Valid)
	assert.False(t, rows[2].Frame.Valid)
	assert.Equal(t, "QD", rows[3].Frame.Value)
}

func TestDecodeSnapshotNullIsNotMalformed(t *testing.T) {
	snap, malformed := decodeSnapshot([]byte(" null "))
	assert.False(t, malformed)
	assert.True(t, snap.Empty())

	snap, malformed = decodeSnapshot([]byte(`["frame"]`))
	assert.True(t, malformed)
	assert.True(t, snap.Empty())
}
