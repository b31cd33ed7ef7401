package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/service"
)

type PaymentController struct {
	Payments *service.PaymentService
}

func (pc *PaymentController) Process(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if in.OrderID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "order_id is required"})
	}

	payment, err := pc.Payments.ProcessPayment(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

func (pc *PaymentController) Refund(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var in dto.RefundRequest
	if err := c.BodyParser(&in); err != nil || in.Reason == "" {
		return c.Status(400).JSON(fiber.Map{"error": "reason is required"})
	}

	payment, err := pc.Payments.RefundPayment(c.Context(), uint(id), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

func (pc *PaymentController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	payment, err := pc.Payments.GetPayment(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

func (pc *PaymentController) GetByOrder(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("orderId"))
	if err != nil || orderID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid order id"})
	}

	payment, err := pc.Payments.GetPaymentByOrder(c.Context(), uint(orderID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

func (pc *PaymentController) GetByNumber(c *fiber.Ctx) error {
	payment, err := pc.Payments.GetPaymentByNumber(c.Context(), c.Params("paymentNumber"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

func (pc *PaymentController) ListByStatus(c *fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "status is required"})
	}

	payments, err := pc.Payments.GetPaymentsByStatus(c.Context(), model.PaymentStatus(status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}
