package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dineflow/ordering-api/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineTotal(t *testing.T) {
	opts := []models.SelectedOption{
		{ID: "a", Name: "extra cheese", Price: d("2000")},
		{ID: "b", Name: "no chicken", Price: d("-500"), Kind: models.OptionKindRemoval},
	}
	total := LineTotal(d("10000"), opts, 2)
	assert.True(t, total.Equal(d("23000")), "got %s", total)
}

func TestLineTotalNoOptions(t *testing.T) {
	assert.True(t, LineTotal(d("1500"), nil, 3).Equal(d("4500")))
}

func TestLineTotalZeroPriceOptions(t *testing.T) {
	opts := []models.SelectedOption{{ID: "a", Name: "large", Price: decimal.Zero}}
	assert.True(t, LineTotal(d("999.50"), opts, 1).Equal(d("999.50")))
}

func TestSubtotalAndItemCount(t *testing.T) {
	lines := []models.CartLine{
		{Quantity: 2, TotalPrice: d("23000")},
		{Quantity: 1, TotalPrice: d("1500")},
	}
	assert.True(t, Subtotal(lines).Equal(d("24500")))
	assert.Equal(t, 3, ItemCount(lines))

	assert.True(t, Subtotal(nil).Equal(decimal.Zero))
	assert.Equal(t, 0, ItemCount(nil))
}
