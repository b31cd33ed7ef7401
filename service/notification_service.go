package service

import (
	"fmt"
	"log"
	"time"

	"github.com/sithumisanilka/Technova/model"
)

// Mailer delivers a single email. The default implementation only logs, which
// is the mock mode the store runs with in development.
type Mailer interface {
	Send(to, subject, body string) error
}

type LogMailer struct{}

func (LogMailer) Send(to, subject, _ string) error {
	log.Printf("MOCK EMAIL: to=%s subject=%q", to, subject)
	return nil
}

// EventPublisher pushes domain events onto the message bus. A nil
// *kafka.Producer satisfies it as a no-op.
type EventPublisher interface {
	PublishOrderCreatedEvent(event any)
	PublishPaymentCompletedEvent(event any)
	PublishPaymentRefundedEvent(event any)
}

// NotificationService dispatches order/payment notifications after the
// owning transaction commits. Everything here is best-effort: dispatch runs
// on its own goroutine, failures are logged and swallowed, and the checkout
// or payment call that triggered it never sees them.
type NotificationService struct {
	mailer     Mailer
	events     EventPublisher
	adminEmail string

	// backoff is the base delay between confirmation-email retries,
	// multiplied by the attempt number.
	backoff time.Duration

	// async is disabled in tests to make dispatch observable.
	async bool
}

const mailAttempts = 3

func NewNotificationService(mailer Mailer, events EventPublisher, adminEmail string) *NotificationService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &NotificationService{
		mailer:     mailer,
		events:     events,
		adminEmail: adminEmail,
		backoff:    2 * time.Second,
		async:      true,
	}
}

func (n *NotificationService) dispatch(fn func()) {
	if n.async {
		go fn()
		return
	}
	fn()
}

func (n *NotificationService) OrderCreated(order *model.Order) {
	n.dispatch(func() { n.notifyOrderCreated(order) })
}

func (n *NotificationService) notifyOrderCreated(order *model.Order) {
	if n.events != nil {
		n.events.PublishOrderCreatedEvent(map[string]any{
			"event_type": "order.created",
			"data": map[string]any{
				"order_id":     order.ID,
				"order_number": order.OrderNumber,
				"customer_id":  order.CustomerID,
				"total_amount": order.TotalAmount,
				"created_at":   order.CreatedAt.Format(time.RFC3339),
			},
		})
	}

	subject := fmt.Sprintf("Order Confirmation - Technova #%s", order.OrderNumber)
	body := fmt.Sprintf("Thank you %s, your order %s totalling %s has been received.",
		order.ShippingName, order.OrderNumber, order.TotalAmount.StringFixed(2))
	n.sendWithRetry(order.CustomerEmail, subject, body)

	if n.adminEmail != "" {
		adminSubject := fmt.Sprintf("New Order Received - Technova Store #%s", order.OrderNumber)
		adminBody := fmt.Sprintf("Order %s from customer %d, total %s.",
			order.OrderNumber, order.CustomerID, order.TotalAmount.StringFixed(2))
		if err := n.mailer.Send(n.adminEmail, adminSubject, adminBody); err != nil {
			log.Printf("Failed to send admin alert for order %s: %v", order.OrderNumber, err)
		}
	}
}

// sendWithRetry makes up to three delivery attempts with a progressive
// delay. It runs off the request path, so sleeping here blocks nobody.
func (n *NotificationService) sendWithRetry(to, subject, body string) {
	for attempt := 1; attempt <= mailAttempts; attempt++ {
		err := n.mailer.Send(to, subject, body)
		if err == nil {
			if attempt > 1 {
				log.Printf("Email to %s sent on attempt %d", to, attempt)
			}
			return
		}
		log.Printf("Email send attempt %d to %s failed: %v", attempt, to, err)
		if attempt < mailAttempts {
			time.Sleep(n.backoff * time.Duration(attempt))
		}
	}
	log.Printf("Giving up on email to %s after %d attempts", to, mailAttempts)
}

func (n *NotificationService) PaymentCompleted(payment *model.PaymentTransaction, order *model.Order) {
	n.dispatch(func() {
		if n.events != nil {
			n.events.PublishPaymentCompletedEvent(map[string]any{
				"event_type": "payment.completed",
				"data": map[string]any{
					"payment_id":     payment.ID,
					"payment_number": payment.PaymentNumber,
					"order_id":       order.ID,
					"order_number":   order.OrderNumber,
					"amount":         payment.Amount,
					"transaction_id": payment.TransactionID,
				},
			})
		}
	})
}

func (n *NotificationService) PaymentRefunded(payment *model.PaymentTransaction, order *model.Order) {
	n.dispatch(func() {
		if n.events != nil {
			n.events.PublishPaymentRefundedEvent(map[string]any{
				"event_type": "payment.refunded",
				"data": map[string]any{
					"payment_id":     payment.ID,
					"payment_number": payment.PaymentNumber,
					"order_id":       order.ID,
					"order_number":   order.OrderNumber,
					"amount":         payment.Amount,
				},
			})
		}
	})
}
