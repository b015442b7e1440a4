package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *int
	}{
		{"object", `{"symbol":"BTCUSDT","price":"67000.10"}`, intPtr(2)},
		{"nested object counts top level only", `{"error":[],"result":{"XXBTZUSD":{"a":["1"]}}}`, intPtr(2)},
		{"array of records", `[{"currency_pair":"BTC_USDT","last":"1","high_24h":"2"}]`, intPtr(3)},
		{"array of scalars", `[1,2,3,4]`, intPtr(4)},
		{"empty array", `[]`, intPtr(0)},
		{"empty object", `{}`, intPtr(0)},
		{"scalar", `"ok"`, nil},
		{"null", `null`, nil},
		{"html", `<html>rate limited</html>`, nil},
		{"empty", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountFields([]byte(tt.body))
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intPtr(v int) *int { return &v }
