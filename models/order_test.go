package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The backend historically returns adds either as objects or as bare id
// strings; both shapes must normalize to the same struct on ingress.
func TestOrderAddNormalization(t *testing.T) {
	var item OrderItem
	err := json.Unmarshal([]byte(`{
		"product_id": 1,
		"name": "Caesar Salad",
		"quantity": 1,
		"unit_price": "10000",
		"adds": ["addon-1", {"add_id": "addon-2", "name": "Extra Cheese", "price": "2000", "quantity": 2}]
	}`), &item)
	require.NoError(t, err)
	require.Len(t, item.Adds, 2)

	assert.Equal(t, "addon-1", item.Adds[0].AddID)
	assert.Equal(t, 1, item.Adds[0].Quantity)

	assert.Equal(t, "addon-2", item.Adds[1].AddID)
	assert.Equal(t, "Extra Cheese", item.Adds[1].Name)
	assert.Equal(t, 2, item.Adds[1].Quantity)
}

func TestOrderItemAddsOmittedWhenEmpty(t *testing.T) {
	raw, err := json.Marshal(OrderItem{ProductID: 1, Name: "Soup", Quantity: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"adds"`)
}

func TestOrderStatusValidity(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, OrderStatus("shipped").IsValid())

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}
