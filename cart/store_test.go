package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineflow/ordering-api/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func saladSpec() AddSpec {
	return AddSpec{
		ProductID:   7,
		ProductName: "Caesar Salad",
		BasePrice:   d("10000"),
		SelectedOptions: []models.SelectedOption{
			{ID: "opt-cheese", Name: "extra cheese", Price: d("2000"), Kind: models.OptionKindExtra},
			{ID: "opt-nochicken", Name: "no chicken", Price: d("-500"), Kind: models.OptionKindRemoval},
		},
		Quantity: 2,
	}
}

func TestAddItemDerivesTotal(t *testing.T) {
	s := NewStore()
	line := s.AddItem(saladSpec())
	assert.True(t, line.TotalPrice.Equal(d("23000")), "got %s", line.TotalPrice)
	assert.NotEmpty(t, line.ID)
}

func TestAddItemNeverMerges(t *testing.T) {
	s := NewStore()
	a := s.AddItem(saladSpec())
	b := s.AddItem(saladSpec())
	require.NotEqual(t, a.ID, b.ID)

	snap := s.Snapshot()
	assert.Len(t, snap.Lines, 2)
	assert.Equal(t, 4, snap.TotalItems)
	assert.True(t, snap.TotalPrice.Equal(d("46000")))
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	s := NewStore()
	line := s.AddItem(saladSpec())

	for _, q := range []int{0, -1, -100} {
		s.UpdateQuantity(line.ID, q)
		snap := s.Snapshot()
		require.Equal(t, 1, snap.Lines[0].Quantity, "q=%d", q)
		assert.True(t, snap.Lines[0].TotalPrice.Equal(d("11500")))
	}

	s.UpdateQuantity(line.ID, 3)
	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.True(t, snap.Lines[0].TotalPrice.Equal(d("34500")))
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	s := NewStore()
	s.AddItem(saladSpec())
	s.RemoveItem("no-such-line")
	assert.Len(t, s.Snapshot().Lines, 1)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(saladSpec())
	s.AddItem(saladSpec())
	s.Clear()

	snap := s.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Equal(t, 0, snap.TotalItems)
	assert.True(t, snap.TotalPrice.Equal(decimal.Zero))
	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(decimal.Zero))
}

func TestTotalsAlwaysDerived(t *testing.T) {
	s := NewStore()
	a := s.AddItem(AddSpec{ProductID: 1, ProductName: "Soup", BasePrice: d("3000"), Quantity: 1})
	s.AddItem(AddSpec{ProductID: 2, ProductName: "Bread", BasePrice: d("1000"), Quantity: 2})

	s.UpdateQuantity(a.ID, 4)
	snap := s.Snapshot()
	for _, line := range snap.Lines {
		want := line.BasePrice
		for _, o := range line.SelectedOptions {
			want = want.Add(o.Price)
		}
		want = want.Mul(decimal.NewFromInt(int64(line.Quantity)))
		assert.True(t, line.TotalPrice.Equal(want))
	}
	assert.True(t, s.TotalPrice().Equal(d("14000")))
}

func TestSubscribersSeePostMutationStateInOrder(t *testing.T) {
	s := NewStore()
	var seen []models.CartSnapshot
	unsub := s.Subscribe(func(snap models.CartSnapshot) {
		seen = append(seen, snap)
	})

	line := s.AddItem(saladSpec())
	s.UpdateQuantity(line.ID, 5)
	s.RemoveItem(line.ID)

	require.Len(t, seen, 3)
	assert.Equal(t, 2, seen[0].Lines[0].Quantity)
	assert.Equal(t, 5, seen[1].Lines[0].Quantity)
	assert.Empty(t, seen[2].Lines)

	unsub()
	s.AddItem(saladSpec())
	assert.Len(t, seen, 3)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.AddItem(saladSpec())

	snap := s.Snapshot()
	snap.Lines[0].Quantity = 99
	snap.Lines[0].SelectedOptions[0].Price = d("1")

	fresh := s.Snapshot()
	assert.Equal(t, 2, fresh.Lines[0].Quantity)
	assert.True(t, fresh.Lines[0].SelectedOptions[0].Price.Equal(d("2000")))
}

func TestManagerOneStorePerUser(t *testing.T) {
	m := NewManager()
	a := m.ForUser("u1")
	b := m.ForUser("u1")
	c := m.ForUser("u2")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
