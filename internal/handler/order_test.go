package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/catalog"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/order"
)

type mockOrderService struct {
	createOrderFunc        func(ctx context.Context, in order.CreateOrderInput) (*order.Order, error)
	replaceItemsFunc       func(ctx context.Context, orderID int64, cart []order.CartEntry) (*order.Order, error)
	getOrderByIDFunc       func(ctx context.Context, id int64) (*order.Order, error)
	listOrdersFunc         func(ctx context.Context) ([]order.Summary, error)
	listCustomerOrdersFunc func(ctx context.Context, customerID int64) ([]order.Order, error)
	settleFunc             func(ctx context.Context, in order.SettleInput) (*order.Order, error)
	addPaymentFunc         func(ctx context.Context, orderID int64, method string, amount float64) (*order.Payment, error)
	updateStatusFunc       func(ctx context.Context, orderID int64, status string) error
	deleteOrderFunc        func(ctx context.Context, id int64) error
}

func (m *mockOrderService) CreateOrder(ctx context.Context, in order.CreateOrderInput) (*order.Order, error) {
	return m.createOrderFunc(ctx, in)
}

func (m *mockOrderService) ReplaceItems(ctx context.Context, orderID int64, cart []order.CartEntry) (*order.Order, error) {
	return m.replaceItemsFunc(ctx, orderID, cart)
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id int64) (*order.Order, error) {
	return m.getOrderByIDFunc(ctx, id)
}

func (m *mockOrderService) ListOrders(ctx context.Context) ([]order.Summary, error) {
	return m.listOrdersFunc(ctx)
}

func (m *mockOrderService) ListCustomerOrders(ctx context.Context, customerID int64) ([]order.Order, error) {
	return m.listCustomerOrdersFunc(ctx, customerID)
}

func (m *mockOrderService) Settle(ctx context.Context, in order.SettleInput) (*order.Order, error) {
	return m.settleFunc(ctx, in)
}

func (m *mockOrderService) AddPayment(ctx context.Context, orderID int64, method string, amount float64) (*order.Payment, error) {
	return m.addPaymentFunc(ctx, orderID, method, amount)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	return m.updateStatusFunc(ctx, orderID, status)
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id int64) error {
	return m.deleteOrderFunc(ctx, id)
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.PostForm = form
	return req
}

func TestParseCart(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		want    []order.CartEntry
		wantErr bool
	}{
		{
			name: "two_rows_with_colors",
			form: url.Values{
				"product_id": {"1", "2"},
				"quantity":   {"3", "1"},
				"unit_price": {"10.50", "80"},
				"color":      {"Rosa", ""},
			},
			want: []order.CartEntry{
				{ProductID: 1, Quantity: 3, UnitPrice: 10.50, Color: "Rosa"},
				{ProductID: 2, Quantity: 1, UnitPrice: 80},
			},
		},
		{
			name: "color_column_shorter_than_rows",
			form: url.Values{
				"product_id": {"1", "2"},
				"quantity":   {"1", "1"},
				"unit_price": {"5", "5"},
				"color":      {"Azul"},
			},
			want: []order.CartEntry{
				{ProductID: 1, Quantity: 1, UnitPrice: 5, Color: "Azul"},
				{ProductID: 2, Quantity: 1, UnitPrice: 5},
			},
		},
		{
			name: "tier_optional_per_row",
			form: url.Values{
				"product_id": {"1", "2"},
				"quantity":   {"1", "1"},
				"unit_price": {"60", "60"},
				"price_tier": {"wholesale", ""},
			},
			want: []order.CartEntry{
				{ProductID: 1, Quantity: 1, UnitPrice: 60, Tier: catalog.TierWholesale},
				{ProductID: 2, Quantity: 1, UnitPrice: 60},
			},
		},
		{
			name: "empty_form_yields_empty_cart",
			form: url.Values{},
			want: []order.CartEntry{},
		},
		{
			name: "misaligned_columns",
			form: url.Values{
				"product_id": {"1", "2"},
				"quantity":   {"3"},
				"unit_price": {"10", "20"},
			},
			wantErr: true,
		},
		{
			name: "bad_product_id",
			form: url.Values{
				"product_id": {"abc"},
				"quantity":   {"1"},
				"unit_price": {"10"},
			},
			wantErr: true,
		},
		{
			name: "bad_unit_price",
			form: url.Values{
				"product_id": {"1"},
				"quantity":   {"1"},
				"unit_price": {"dez"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCart(formRequest("/admin/orders", tt.form))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFees(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		want    []order.FeeEntry
		wantErr bool
	}{
		{
			name: "paid_and_pending",
			form: url.Values{
				"fee_type":   {"Frete", "Embalagem"},
				"fee_amount": {"8", "2.50"},
				"fee_status": {"Paid", "Pending"},
			},
			want: []order.FeeEntry{
				{CostType: "Frete", Amount: 8, Paid: true},
				{CostType: "Embalagem", Amount: 2.50, Paid: false},
			},
		},
		{
			name: "misaligned_columns",
			form: url.Values{
				"fee_type":   {"Frete"},
				"fee_amount": {"8", "2"},
				"fee_status": {"Paid"},
			},
			wantErr: true,
		},
		{
			name: "bad_amount",
			form: url.Values{
				"fee_type":   {"Frete"},
				"fee_amount": {"oito"},
				"fee_status": {"Paid"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFees(formRequest("/admin/orders/1/settle", tt.form))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	var captured order.CreateOrderInput
	svc := &mockOrderService{
		createOrderFunc: func(ctx context.Context, in order.CreateOrderInput) (*order.Order, error) {
			captured = in
			return &order.Order{ID: 7, CustomerID: in.CustomerID, Status: order.StatusDraft}, nil
		},
	}
	h := NewOrderHandler(svc, NewSessions("test-secret"))

	rec := postForm(h.Create, "/admin/orders", url.Values{
		"customer_id":     {"10"},
		"shipping_method": {"Sedex"},
		"product_id":      {"1"},
		"quantity":        {"2"},
		"unit_price":      {"45.90"},
		"color":           {"Verde"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders/7", rec.Header().Get("Location"))
	assert.Equal(t, int64(10), captured.CustomerID)
	assert.Equal(t, "Sedex", captured.ShippingMethod)
	require.Len(t, captured.Cart, 1)
	assert.Equal(t, order.CartEntry{ProductID: 1, Quantity: 2, UnitPrice: 45.90, Color: "Verde"}, captured.Cart[0])
}

func TestOrderHandlerCreateRejectsEmptyCart(t *testing.T) {
	svc := &mockOrderService{
		createOrderFunc: func(ctx context.Context, in order.CreateOrderInput) (*order.Order, error) {
			return nil, order.ErrEmptyCart
		},
	}
	h := NewOrderHandler(svc, NewSessions("test-secret"))

	rec := postForm(h.Create, "/admin/orders", url.Values{"customer_id": {"10"}}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders", rec.Header().Get("Location"))
}

func TestOrderHandlerCreateRejectsBadCustomerID(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{}, NewSessions("test-secret"))

	rec := postForm(h.Create, "/admin/orders", url.Values{"customer_id": {"abc"}}, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/orders", rec.Header().Get("Location"))
}
