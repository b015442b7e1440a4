package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().Write(&buf, fixtureRun()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.Equal(t, csvHeader, records[0])

	gate := records[1]
	assert.Equal(t, "Gate.io", gate[0])
	assert.Equal(t, "ticker", gate[1])
	assert.Equal(t, "1", gate[2])
	assert.Equal(t, "true", gate[4])
	assert.Equal(t, "20.00", gate[5])
	assert.Equal(t, "200", gate[6])
	assert.Equal(t, "10", gate[7])
	assert.Empty(t, gate[8])

	failed := records[3]
	assert.Equal(t, "Kraken", failed[0])
	assert.Equal(t, "false", failed[4])
	assert.Empty(t, failed[5], "failed probe has no latency")
	assert.Empty(t, failed[6])
	assert.Equal(t, "request timed out after 3s", failed[8])

	assert.Equal(t, "2", records[6][2])
}
