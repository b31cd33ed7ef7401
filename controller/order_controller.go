package controller

import (
	"io"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/service"
)

type OrderController struct {
	Orders *service.OrderService
}

func (oc *OrderController) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	order, err := oc.Orders.Checkout(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(order)
}

// CheckoutWithReceipt is the multipart variant used for bank transfers: the
// shipping fields come as form values and the payment receipt as a file part.
func (oc *OrderController) CheckoutWithReceipt(c *fiber.Ctx) error {
	customerID, err := strconv.Atoi(c.FormValue("customer_id"))
	if err != nil {
		customerID = 0
	}

	in := dto.CheckoutRequest{
		CustomerID:         uint(customerID),
		Email:              c.FormValue("email"),
		ShippingName:       c.FormValue("shipping_name"),
		ShippingAddress:    c.FormValue("shipping_address"),
		ShippingCity:       c.FormValue("shipping_city"),
		ShippingPostalCode: c.FormValue("shipping_postal_code"),
		ShippingPhone:      c.FormValue("shipping_phone"),
		PaymentMethod:      model.PaymentMethod(c.FormValue("payment_method")),
		Notes:              c.FormValue("notes"),
	}

	if file, err := c.FormFile("receipt"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "failed to open receipt"})
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "failed to read receipt"})
		}
		in.ReceiptData = data
		in.ReceiptFileName = file.Filename
		in.ReceiptContentType = file.Header.Get("Content-Type")
	}

	order, err := oc.Orders.Checkout(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(order)
}

func (oc *OrderController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	order, err := oc.Orders.GetOrder(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (oc *OrderController) GetByNumber(c *fiber.Ctx) error {
	order, err := oc.Orders.GetOrderByNumber(c.Context(), c.Params("orderNumber"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// List filters by ?customer_id= or ?status= when given, otherwise returns
// every order.
func (oc *OrderController) List(c *fiber.Ctx) error {
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := strconv.Atoi(raw)
		if err != nil || customerID <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "invalid customer_id"})
		}
		orders, err := oc.Orders.GetOrdersByCustomer(c.Context(), uint(customerID))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	}

	if status := c.Query("status"); status != "" {
		orders, err := oc.Orders.GetOrdersByStatus(c.Context(), model.OrderStatus(status))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	}

	orders, err := oc.Orders.GetAllOrders(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (oc *OrderController) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var in struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil || in.Status == "" {
		return c.Status(400).JSON(fiber.Map{"error": "status is required"})
	}

	order, err := oc.Orders.UpdateOrderStatus(c.Context(), uint(id), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// GetReceipt serves the stored bank transfer receipt.
func (oc *OrderController) GetReceipt(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	order, err := oc.Orders.GetOrder(c.Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	if len(order.ReceiptData) == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "no receipt for this order"})
	}

	c.Set(fiber.HeaderContentType, order.ReceiptContentType)
	// the uploaded filename is untrusted input, so it gets escaped rather
	// than spliced into the header
	c.Set(fiber.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": order.ReceiptFileName}))
	return c.Send(order.ReceiptData)
}
