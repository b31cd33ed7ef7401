package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/service"
)

type CartController struct {
	Carts *service.CartService
}

func customerID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("customerId"))
	if err != nil || id <= 0 {
		return 0, c.Status(400).JSON(fiber.Map{"error": "invalid customer id"})
	}
	return uint(id), nil
}

func (cc *CartController) GetCart(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}

	cart, err := cc.Carts.GetCart(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (cc *CartController) AddItem(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}

	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	cart, err := cc.Carts.AddItem(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (cc *CartController) AddService(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}

	var in dto.AddServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	cart, err := cc.Carts.AddService(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (cc *CartController) UpdateItem(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil || productID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid product id"})
	}

	var in dto.UpdateCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	cart, err := cc.Carts.UpdateItemQuantity(c.Context(), id, uint(productID), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (cc *CartController) RemoveItem(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil || productID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid product id"})
	}

	cart, err := cc.Carts.RemoveItem(c.Context(), id, uint(productID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (cc *CartController) RemoveService(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}
	serviceID, err := strconv.Atoi(c.Params("serviceId"))
	if err != nil || serviceID <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid service id"})
	}

	cart, err := cc.Carts.RemoveService(c.Context(), id, uint(serviceID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (cc *CartController) ClearCart(c *fiber.Ctx) error {
	id, err := customerID(c)
	if id == 0 {
		return err
	}

	if err := cc.Carts.ClearCart(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}
