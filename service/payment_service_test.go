package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/repository"
)

func checkoutOrder(t *testing.T, store *repository.MemoryStore, method model.PaymentMethod) *model.Order {
	t.Helper()
	fillCart(t, store, 1, 2, "100.00")
	req := validCheckout(1)
	req.PaymentMethod = method
	order, err := NewOrderService(store, nil, nil).Checkout(context.Background(), req)
	require.NoError(t, err)
	return order
}

func TestProcessCashOnDeliveryAlwaysSucceeds(t *testing.T) {
	store := repository.NewMemoryStore()
	notifier := &spyNotifier{}
	svc := NewPaymentService(store, notifier)
	ctx := context.Background()

	order := checkoutOrder(t, store, model.PaymentMethodCashOnDelivery)

	payment, err := svc.ProcessPayment(ctx, dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	assert.True(t, strings.HasPrefix(payment.TransactionID, "TXN-"))
	require.NotNil(t, payment.ProcessedAt)

	got, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, got.Status)

	require.Len(t, notifier.paid, 1)
	assert.Equal(t, payment.PaymentNumber, notifier.paid[0].PaymentNumber)
}

// A card number under 16 digits is rejected before the gateway is consulted,
// so the randomness source must never fire.
func TestProcessShortCardFailsWithoutGateway(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil).WithRandom(func() float64 {
		t.Fatal("gateway randomness consumed for an invalid card")
		return 0
	})
	ctx := context.Background()

	order := checkoutOrder(t, store, model.PaymentMethodCreditCard)

	payment, err := svc.ProcessPayment(ctx, dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodCreditCard,
		CardNumber:    "123456789012",
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusFailed, payment.Status)
	assert.Empty(t, payment.TransactionID)
	assert.True(t, strings.HasPrefix(payment.Notes, "Payment failed"))

	got, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
}

func TestProcessValidCardUsesGateway(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil).WithRandom(func() float64 { return 0.5 })

	order := checkoutOrder(t, store, model.PaymentMethodCreditCard)

	payment, err := svc.ProcessPayment(context.Background(), dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodCreditCard,
		CardNumber:    "4111111111111111",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
}

func TestProcessBankTransferOutcomes(t *testing.T) {
	for name, tc := range map[string]struct {
		rng  float64
		want model.PaymentStatus
	}{
		"gateway accepts": {rng: 0.5, want: model.PaymentStatusCompleted},
		"gateway rejects": {rng: 0.05, want: model.PaymentStatusFailed},
	} {
		t.Run(name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			svc := NewPaymentService(store, nil).WithRandom(func() float64 { return tc.rng })

			order := checkoutOrder(t, store, model.PaymentMethodBankTransfer)

			payment, err := svc.ProcessPayment(context.Background(), dto.PaymentRequest{
				OrderID:       order.ID,
				PaymentMethod: model.PaymentMethodBankTransfer,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, payment.Status)
		})
	}
}

func TestProcessUnknownMethodFails(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil)

	order := checkoutOrder(t, store, model.PaymentMethodCashOnDelivery)

	payment, err := svc.ProcessPayment(context.Background(), dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethod("CRYPTOCURRENCY"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, payment.Status)
}

func TestProcessCompletedPaymentIsRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	order := checkoutOrder(t, store, model.PaymentMethodCashOnDelivery)

	first, err := svc.ProcessPayment(ctx, dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	_, err = svc.ProcessPayment(ctx, dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodCashOnDelivery,
	})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// the settled payment is untouched by the rejected second attempt
	got, err := store.Payments().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, got.Status)
	assert.Equal(t, first.TransactionID, got.TransactionID)
	require.NotNil(t, got.ProcessedAt)
	assert.True(t, got.ProcessedAt.Equal(*first.ProcessedAt))
}

func TestProcessUnknownOrder(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil)

	_, err := svc.ProcessPayment(context.Background(), dto.PaymentRequest{
		OrderID:       999,
		PaymentMethod: model.PaymentMethodCashOnDelivery,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	order := checkoutOrder(t, store, model.PaymentMethodCashOnDelivery)
	require.NotNil(t, order.Payment)

	_, err := svc.RefundPayment(ctx, order.Payment.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidState)

	got, err := store.Payments().GetByID(ctx, order.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, got.Status)
}

func TestRefundCompletedPayment(t *testing.T) {
	store := repository.NewMemoryStore()
	notifier := &spyNotifier{}
	svc := NewPaymentService(store, notifier)
	ctx := context.Background()

	order := checkoutOrder(t, store, model.PaymentMethodCashOnDelivery)

	completed, err := svc.ProcessPayment(ctx, dto.PaymentRequest{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodCashOnDelivery,
		Notes:         "paid at door",
	})
	require.NoError(t, err)

	refunded, err := svc.RefundPayment(ctx, completed.ID, "item damaged")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusRefunded, refunded.Status)
	assert.Contains(t, refunded.Notes, "paid at door")
	assert.Contains(t, refunded.Notes, "Refunded: item damaged")

	got, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefunded, got.Status)

	require.Len(t, notifier.refunded, 1)
}

func TestGetPaymentsByStatus(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	order := checkoutOrder(t, store, model.PaymentMethodCashOnDelivery)

	pending, err := svc.GetPaymentsByStatus(ctx, model.PaymentStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, order.Payment.PaymentNumber, pending[0].PaymentNumber)

	completed, err := svc.GetPaymentsByStatus(ctx, model.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}
