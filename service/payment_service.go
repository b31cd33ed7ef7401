package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/repository"
)

// PaymentService settles pending payments against a simulated gateway and
// drives the payment state machine:
// PENDING -> PROCESSING -> {COMPLETED, FAILED}; COMPLETED -> REFUNDED.
type PaymentService struct {
	store    repository.Store
	notifier Notifier

	// rng decides gateway outcomes; injected so tests can force results.
	rng func() float64
}

func NewPaymentService(store repository.Store, notifier Notifier) *PaymentService {
	return &PaymentService{store: store, notifier: notifier, rng: rand.Float64}
}

// WithRandom replaces the gateway randomness source.
func (s *PaymentService) WithRandom(rng func() float64) *PaymentService {
	s.rng = rng
	return s
}

// ProcessPayment settles the pending payment of an order. The payment row is
// locked for the duration of the transaction, so concurrent calls for the
// same payment serialize and the completed-check acts as the gate: a payment
// that already completed is never re-charged.
func (s *PaymentService) ProcessPayment(ctx context.Context, req dto.PaymentRequest) (*model.PaymentTransaction, error) {
	var payment *model.PaymentTransaction
	var order *model.Order
	var succeeded bool

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.Orders().GetByID(ctx, req.OrderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", req.OrderID, err)
		}

		payment, err = tx.Payments().GetByOrderID(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("payment for order %d: %w", order.ID, err)
		}

		if payment.Status == model.PaymentStatusCompleted {
			return ErrAlreadyProcessed
		}

		payment.Status = model.PaymentStatusProcessing
		payment.Notes = req.Notes
		if err := tx.Payments().Save(ctx, payment); err != nil {
			return fmt.Errorf("save processing payment: %w", err)
		}

		succeeded = s.simulateGateway(req)
		if succeeded {
			now := time.Now()
			payment.Status = model.PaymentStatusCompleted
			payment.TransactionID = GenerateTransactionID()
			payment.ProcessedAt = &now

			if err := tx.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusConfirmed); err != nil {
				return fmt.Errorf("confirm order: %w", err)
			}
			order.Status = model.OrderStatusConfirmed
		} else {
			payment.Status = model.PaymentStatusFailed
			payment.Notes = "Payment failed - " + payment.Notes
		}

		return tx.Payments().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	if succeeded {
		log.Printf("Payment %s completed for order %s", payment.PaymentNumber, order.OrderNumber)
		if s.notifier != nil {
			s.notifier.PaymentCompleted(payment, order)
		}
	} else {
		log.Printf("Payment %s failed for order %s", payment.PaymentNumber, order.OrderNumber)
	}
	return payment, nil
}

// simulateGateway stands in for a real payment network. Card payments with a
// short card number fail outright without consuming randomness.
func (s *PaymentService) simulateGateway(req dto.PaymentRequest) bool {
	switch req.PaymentMethod {
	case model.PaymentMethodCashOnDelivery:
		return true
	case model.PaymentMethodBankTransfer:
		return s.rng() > 0.1
	case model.PaymentMethodCreditCard, model.PaymentMethodDebitCard:
		if len(req.CardNumber) < 16 {
			return false
		}
		return s.rng() > 0.05
	case model.PaymentMethodDigitalWallet:
		return s.rng() > 0.02
	default:
		return false
	}
}

// RefundPayment moves a COMPLETED payment to REFUNDED and the owning order
// with it. Any other payment state is rejected.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uint, reason string) (*model.PaymentTransaction, error) {
	var payment *model.PaymentTransaction
	var order *model.Order

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		payment, err = tx.Payments().GetByID(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("payment %d: %w", paymentID, err)
		}

		if payment.Status != model.PaymentStatusCompleted {
			return ErrInvalidState
		}

		now := time.Now()
		payment.Status = model.PaymentStatusRefunded
		payment.ProcessedAt = &now
		if payment.Notes != "" {
			payment.Notes += " | "
		}
		payment.Notes += "Refunded: " + reason

		if err := tx.Orders().UpdateStatus(ctx, payment.OrderID, model.OrderStatusRefunded); err != nil {
			return fmt.Errorf("refund order: %w", err)
		}
		if err := tx.Payments().Save(ctx, payment); err != nil {
			return fmt.Errorf("save refunded payment: %w", err)
		}

		order, err = tx.Orders().GetByID(ctx, payment.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payment %s refunded, reason: %s", payment.PaymentNumber, reason)
	if s.notifier != nil {
		s.notifier.PaymentRefunded(payment, order)
	}
	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint) (*model.PaymentTransaction, error) {
	return s.store.Payments().GetByID(ctx, id)
}

func (s *PaymentService) GetPaymentByOrder(ctx context.Context, orderID uint) (*model.PaymentTransaction, error) {
	return s.store.Payments().GetByOrderID(ctx, orderID)
}

func (s *PaymentService) GetPaymentByNumber(ctx context.Context, paymentNumber string) (*model.PaymentTransaction, error) {
	return s.store.Payments().GetByPaymentNumber(ctx, paymentNumber)
}

func (s *PaymentService) GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]model.PaymentTransaction, error) {
	return s.store.Payments().ListByStatus(ctx, status)
}
