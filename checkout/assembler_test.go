package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineflow/ordering-api/backend"
	"github.com/dineflow/ordering-api/cart"
	"github.com/dineflow/ordering-api/config"
	"github.com/dineflow/ordering-api/kvstore"
	"github.com/dineflow/ordering-api/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeMenu struct{ products map[uint]*models.Product }

func (f *fakeMenu) ProductByID(_ context.Context, id uint) (*models.Product, error) {
	return f.products[id], nil
}
func (f *fakeMenu) ListProducts(context.Context) ([]models.Product, error)    { return nil, nil }
func (f *fakeMenu) ListCategories(context.Context) ([]models.Category, error) { return nil, nil }

type fakeAddOns struct{ addons []models.AddOn }

func (f *fakeAddOns) ListAvailable(context.Context) ([]models.AddOn, error) { return f.addons, nil }
func (f *fakeAddOns) ListByCategory(context.Context, uint) ([]models.AddOn, error) {
	return f.addons, nil
}

type fakeBackend struct {
	submitted []*models.OrderRequest
	fail      error
	nextID    uint
}

func (f *fakeBackend) Submit(_ context.Context, req *models.OrderRequest) (*models.Order, error) {
	f.submitted = append(f.submitted, req)
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	order := &models.Order{
		ID:            f.nextID,
		TrackingCode:  "T-1",
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		Type:          req.OrderType,
		Status:        models.OrderStatusPending,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Items:         req.Items,
		CreatedAt:     time.Now(),
	}
	return order, nil
}

func (f *fakeBackend) Order(context.Context, uint) (*models.Order, error) { return nil, nil }
func (f *fakeBackend) OrdersForCustomer(context.Context, string) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeBackend) AllOrders(context.Context) ([]models.Order, error) { return nil, nil }
func (f *fakeBackend) Transition(context.Context, uint, models.OrderStatus, models.OrderStatus, string) (*models.Order, error) {
	return nil, nil
}

func testConfig() config.Config {
	return config.Config{
		PickupFee:        d("1000"),
		DeliveryFee:      d("4000"),
		CancelWindow:     5 * time.Minute,
		PrepBase:         20 * time.Minute,
		PrepPerExtraItem: 2 * time.Minute,
		DeliveryTransit:  30 * time.Minute,
	}
}

type fixture struct {
	carts   *cart.Manager
	backend *fakeBackend
	kv      kvstore.Store
	asm     *Assembler
}

func newFixture() *fixture {
	menu := &fakeMenu{products: map[uint]*models.Product{
		1: {ID: 1, Name: "Caesar Salad", CategoryID: 10},
	}}
	carts := cart.NewManager()
	fb := &fakeBackend{}
	kv := kvstore.NewMemoryStore()
	asm := NewAssembler(carts, menu, &fakeAddOns{}, fb, kv, testConfig())
	return &fixture{carts: carts, backend: fb, kv: kv, asm: asm}
}

func (fx *fixture) fillCart(userID string) {
	fx.carts.ForUser(userID).AddItem(cart.AddSpec{
		ProductID: 1, ProductName: "Caesar Salad", BasePrice: d("10000"), Quantity: 1,
	})
}

func customer() Customer { return Customer{ID: "u1", Name: "Dana"} }

func TestEmptyCartNeverSubmits(t *testing.T) {
	fx := newFixture()
	_, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cart", verr.Field)
	assert.Empty(t, fx.backend.submitted, "backend must not be called")
}

func TestDeliveryWithoutAddressRejectedBeforeSubmit(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	_, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypeDelivery, PaymentMethod: "cash",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "address", verr.Field)
	assert.Empty(t, fx.backend.submitted)
	assert.Len(t, fx.carts.ForUser("u1").Snapshot().Lines, 1, "cart preserved")
}

func TestIncompleteInlineAddressRejected(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	_, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType:     models.OrderTypeDelivery,
		PaymentMethod: "cash",
		Address:       &models.Address{Street: "Main St 1"},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, fx.backend.submitted)
}

func TestPickupFeeAppliedOnce(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	res, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, res.Order.Total.Equal(d("11000")), "got %s", res.Order.Total)
	assert.Nil(t, res.Order.DeliveryAddress)
}

func TestDeliveryFeeApplied(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	res, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType:     models.OrderTypeDelivery,
		PaymentMethod: "cash",
		Address:       &models.Address{Street: "Main St 1", City: "Almaty", PostalCode: "050000"},
	})
	require.NoError(t, err)
	assert.True(t, res.Order.Total.Equal(d("14000")), "got %s", res.Order.Total)
	require.NotNil(t, res.Order.EstimatedDeliveryAt)
}

func TestFeeNotAccumulatedAcrossRetries(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")
	fx.backend.fail = &backend.SubmissionError{Class: backend.ClassNetwork, Err: errors.New("conn reset")}

	f := Fulfillment{OrderType: models.OrderTypePickup, PaymentMethod: "cash"}
	_, err := fx.asm.Submit(context.Background(), customer(), f)
	require.Error(t, err)

	fx.backend.fail = nil
	res, err := fx.asm.Submit(context.Background(), customer(), f)
	require.NoError(t, err)
	assert.True(t, res.Order.Total.Equal(d("11000")))

	require.Len(t, fx.backend.submitted, 2)
	assert.True(t, fx.backend.submitted[0].Total.Equal(fx.backend.submitted[1].Total))
}

func TestSubmissionFailurePreservesCart(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")
	fx.backend.fail = &backend.SubmissionError{Class: backend.ClassServer, Err: errors.New("boom")}

	_, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	var serr *backend.SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, backend.ClassServer, serr.Class)
	assert.Len(t, fx.carts.ForUser("u1").Snapshot().Lines, 1)
}

func TestSuccessClearsCartAndCachesOrder(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	res, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Empty(t, fx.carts.ForUser("u1").Snapshot().Lines)

	raw, err := fx.kv.Get(context.Background(), kvstore.UserKey("u1", kvstore.KeyOrders))
	require.NoError(t, err)
	var cached []models.Order
	require.NoError(t, json.Unmarshal(raw, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, res.Order.ID, cached[0].ID)
}

func TestFreshOrderReportsCancellable(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	res, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, res.Order.Status)
	assert.True(t, res.Order.CanCancel, "pending order inside the window must be cancellable")
}

func TestEstimates(t *testing.T) {
	fx := newFixture()
	fx.carts.ForUser("u1").AddItem(cart.AddSpec{
		ProductID: 1, ProductName: "Caesar Salad", BasePrice: d("10000"), Quantity: 3,
	})

	res, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	require.NoError(t, err)
	// 20m base + 2 extra items * 2m.
	assert.Equal(t, 24*time.Minute, res.Order.EstimatedReadyAt.Sub(res.Order.CreatedAt))
	assert.Nil(t, res.Order.EstimatedDeliveryAt)
}

func TestCardValidation(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")

	cases := []struct {
		name string
		card *CardDetails
	}{
		{"missing card", nil},
		{"bad number", &CardDetails{Number: "12", Holder: "D", Expiry: "12/30", CVV: "123"}},
		{"no holder", &CardDetails{Number: "4111111111111111", Holder: " ", Expiry: "12/30", CVV: "123"}},
		{"bad expiry", &CardDetails{Number: "4111111111111111", Holder: "D", Expiry: "13/30", CVV: "123"}},
		{"expired", &CardDetails{Number: "4111111111111111", Holder: "D", Expiry: "01/20", CVV: "123"}},
		{"bad cvv", &CardDetails{Number: "4111111111111111", Holder: "D", Expiry: "12/30", CVV: "12"}},
	}
	for _, tc := range cases {
		_, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
			OrderType: models.OrderTypePickup, PaymentMethod: "card", Card: tc.card,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tc.name)
		assert.Empty(t, fx.backend.submitted, tc.name)
	}

	res, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType:     models.OrderTypePickup,
		PaymentMethod: "card",
		Card:          &CardDetails{Number: "4111 1111 1111 1111", Holder: "Dana", Expiry: "12/30", CVV: "123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "card", res.Order.PaymentMethod)
}

func TestSavedAddressAndCardResolution(t *testing.T) {
	fx := newFixture()
	fx.fillCart("u1")
	ctx := context.Background()

	addrs, _ := json.Marshal([]models.Address{
		{Label: "home", Street: "Main St 1", City: "Almaty", PostalCode: "050000"},
	})
	require.NoError(t, fx.kv.Set(ctx, kvstore.UserKey("u1", kvstore.KeyAddresses), addrs))
	cards, _ := json.Marshal([]models.SavedCard{{ID: "c1", Holder: "Dana", Last4: "1111", Expiry: "12/30"}})
	require.NoError(t, fx.kv.Set(ctx, kvstore.UserKey("u1", kvstore.KeyCards), cards))

	res, err := fx.asm.Submit(ctx, customer(), Fulfillment{
		OrderType:     models.OrderTypeDelivery,
		AddressID:     "home",
		PaymentMethod: "card",
		CardID:        "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeDelivery, res.Order.Type)
	require.NotNil(t, fx.backend.submitted[0].Address)
	assert.Equal(t, "Main St 1", fx.backend.submitted[0].Address.Street)

	fx.fillCart("u1")
	_, err = fx.asm.Submit(ctx, customer(), Fulfillment{
		OrderType: models.OrderTypeDelivery, AddressID: "work", PaymentMethod: "cash",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestNoValidProductsRejected(t *testing.T) {
	fx := newFixture()
	// Product 99 is unknown to the menu.
	fx.carts.ForUser("u1").AddItem(cart.AddSpec{
		ProductID: 99, ProductName: "Ghost Dish", BasePrice: d("5000"), Quantity: 1,
	})

	_, err := fx.asm.Submit(context.Background(), customer(), Fulfillment{
		OrderType: models.OrderTypePickup, PaymentMethod: "cash",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
	assert.Empty(t, fx.backend.submitted)
	assert.Len(t, fx.carts.ForUser("u1").Snapshot().Lines, 1)
}
