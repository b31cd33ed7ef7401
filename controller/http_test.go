package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/repository"
	"github.com/sithumisanilka/Technova/routes"
	"github.com/sithumisanilka/Technova/service"
)

func newTestApp(t *testing.T) (*fiber.App, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	store.SeedProduct(model.Product{
		ID:          10,
		ProductName: "Gaming Laptop",
		Price:       decimal.RequireFromString("100.00"),
	})

	carts := service.NewCartService(store)
	orders := service.NewOrderService(store, nil, nil)
	payments := service.NewPaymentService(store, nil)

	app := fiber.New()
	noAuth := func(c *fiber.Ctx) error { return c.Next() }
	routes.RegisterCartRoutes(app, carts, noAuth)
	routes.RegisterOrderRoutes(app, orders, noAuth)
	routes.RegisterPaymentRoutes(app, payments, noAuth)
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func addLaptop(t *testing.T, app *fiber.App, customerID, quantity int) {
	t.Helper()
	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/cart/%d/items", customerID), fiber.Map{
		"product_id": 10, "quantity": quantity, "unit_price": "100.00",
	})
	require.Equal(t, 200, resp.StatusCode)
}

func checkoutBody(customerID int) fiber.Map {
	return fiber.Map{
		"customer_id":          customerID,
		"email":                "jane@example.com",
		"shipping_name":        "Jane Perera",
		"shipping_address":     "12 Galle Road",
		"shipping_city":        "Colombo",
		"shipping_postal_code": "00300",
		"shipping_phone":       "+94771234567",
		"payment_method":       "CASH_ON_DELIVERY",
	}
}

func TestCartEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	addLaptop(t, app, 1, 2)

	resp := doJSON(t, app, "GET", "/api/cart/1", nil)
	require.Equal(t, 200, resp.StatusCode)
	cart := decode[model.Cart](t, resp)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	resp = doJSON(t, app, "PUT", "/api/cart/1/items/10", fiber.Map{"quantity": 5})
	require.Equal(t, 200, resp.StatusCode)
	cart = decode[model.Cart](t, resp)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	resp = doJSON(t, app, "DELETE", "/api/cart/1/items/10", nil)
	require.Equal(t, 200, resp.StatusCode)
	cart = decode[model.Cart](t, resp)
	assert.Empty(t, cart.Items)
}

func TestAddItemUnknownProductIs404(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/cart/1/items", fiber.Map{
		"product_id": 999, "quantity": 1, "unit_price": "10.00",
	})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAddItemValidationIs400WithFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/cart/1/items", fiber.Map{})
	require.Equal(t, 400, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, "expected a fields map, got %v", body)
	assert.Contains(t, fields, "product_id")
}

func TestCheckoutAndPaymentFlow(t *testing.T) {
	app, _ := newTestApp(t)

	addLaptop(t, app, 1, 2)

	resp := doJSON(t, app, "POST", "/api/orders/checkout", checkoutBody(1))
	require.Equal(t, 201, resp.StatusCode)
	order := decode[model.Order](t, resp)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("720.00")))

	resp = doJSON(t, app, "POST", "/api/payments/process", fiber.Map{
		"order_id": order.ID, "payment_method": "CASH_ON_DELIVERY",
	})
	require.Equal(t, 200, resp.StatusCode)
	payment := decode[model.PaymentTransaction](t, resp)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)

	// paying the same order again conflicts
	resp = doJSON(t, app, "POST", "/api/payments/process", fiber.Map{
		"order_id": order.ID, "payment_method": "CASH_ON_DELIVERY",
	})
	assert.Equal(t, 409, resp.StatusCode)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/payments/%d/refund", payment.ID), fiber.Map{
		"reason": "item damaged",
	})
	require.Equal(t, 200, resp.StatusCode)
	refunded := decode[model.PaymentTransaction](t, resp)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.Status)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/orders/%d", order.ID), nil)
	require.Equal(t, 200, resp.StatusCode)
	got := decode[model.Order](t, resp)
	assert.Equal(t, model.OrderStatusRefunded, got.Status)
}

func TestCheckoutEmptyCartIs400(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/orders/checkout", checkoutBody(1))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRefundPendingPaymentIs409(t *testing.T) {
	app, _ := newTestApp(t)

	addLaptop(t, app, 1, 1)
	resp := doJSON(t, app, "POST", "/api/orders/checkout", checkoutBody(1))
	require.Equal(t, 201, resp.StatusCode)
	order := decode[model.Order](t, resp)
	require.NotNil(t, order.Payment)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/payments/%d/refund", order.Payment.ID), fiber.Map{
		"reason": "too slow",
	})
	assert.Equal(t, 409, resp.StatusCode)
}

func TestMultipartCheckoutStoresReceipt(t *testing.T) {
	app, _ := newTestApp(t)

	addLaptop(t, app, 1, 1)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"customer_id":          "1",
		"email":                "jane@example.com",
		"shipping_name":        "Jane Perera",
		"shipping_address":     "12 Galle Road",
		"shipping_city":        "Colombo",
		"shipping_postal_code": "00300",
		"shipping_phone":       "+94771234567",
		"payment_method":       "BANK_TRANSFER",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("receipt", "slip.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 receipt"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/orders/checkout/receipt", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)
	order := decode[model.Order](t, resp)
	assert.Equal(t, "slip.pdf", order.ReceiptFileName)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/orders/%d/receipt", order.ID), nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "attachment; filename=slip.pdf", resp.Header.Get(fiber.HeaderContentDisposition))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 receipt", string(data))
}

// A receipt filename containing header metacharacters must come back
// escaped, not spliced raw into Content-Disposition.
func TestReceiptFilenameIsEscaped(t *testing.T) {
	app, store := newTestApp(t)
	ctx := context.Background()

	carts := service.NewCartService(store)
	_, err := carts.AddItem(ctx, 1, dto.AddCartItemRequest{
		ProductID: 10, Quantity: 1, UnitPrice: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	req := dto.CheckoutRequest{
		CustomerID:         1,
		Email:              "jane@example.com",
		ShippingName:       "Jane Perera",
		ShippingAddress:    "12 Galle Road",
		ShippingCity:       "Colombo",
		ShippingPostalCode: "00300",
		ShippingPhone:      "+94771234567",
		PaymentMethod:      model.PaymentMethodBankTransfer,
		ReceiptData:        []byte("%PDF-1.4 receipt"),
		ReceiptFileName:    `sl"ip.pdf`,
		ReceiptContentType: "application/pdf",
	}
	order, err := service.NewOrderService(store, nil, nil).Checkout(ctx, req)
	require.NoError(t, err)

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/orders/%d/receipt", order.ID), nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `attachment; filename="sl\"ip.pdf"`,
		resp.Header.Get(fiber.HeaderContentDisposition))
}

func TestListOrdersByCustomer(t *testing.T) {
	app, _ := newTestApp(t)

	addLaptop(t, app, 1, 1)
	resp := doJSON(t, app, "POST", "/api/orders/checkout", checkoutBody(1))
	require.Equal(t, 201, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/orders/?customer_id=1", nil)
	require.Equal(t, 200, resp.StatusCode)
	orders := decode[[]model.Order](t, resp)
	assert.Len(t, orders, 1)

	resp = doJSON(t, app, "GET", "/api/orders/?customer_id=2", nil)
	require.Equal(t, 200, resp.StatusCode)
	orders = decode[[]model.Order](t, resp)
	assert.Empty(t, orders)
}
