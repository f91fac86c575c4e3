package request

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemRequest_Qty(t *testing.T) {
	tests := []struct {
		name string
		body string
		want decimal.Decimal
	}{
		{"omitted adds one unit", `{"product_id":"6f1c2a4e-8a4b-4d4f-9b71-3f0cf1f7d2aa"}`, decimal.NewFromInt(1)},
		{"explicit", `{"product_id":"6f1c2a4e-8a4b-4d4f-9b71-3f0cf1f7d2aa","quantity":3}`, decimal.NewFromInt(3)},
		{"explicit zero is kept", `{"product_id":"6f1c2a4e-8a4b-4d4f-9b71-3f0cf1f7d2aa","quantity":0}`, decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req AddItemRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.True(t, req.Qty().Equal(tt.want), "got %s", req.Qty())
		})
	}
}
