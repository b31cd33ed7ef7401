package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/controller"
	"github.com/sithumisanilka/Technova/service"
)

func RegisterCartRoutes(app *fiber.App, carts *service.CartService, authMiddleware fiber.Handler) {
	cc := &controller.CartController{Carts: carts}

	api := app.Group("/api")
	c := api.Group("/cart", authMiddleware)

	c.Get("/:customerId", cc.GetCart)
	c.Post("/:customerId/items", cc.AddItem)
	c.Post("/:customerId/services", cc.AddService)
	c.Put("/:customerId/items/:productId", cc.UpdateItem)
	c.Delete("/:customerId/items/:productId", cc.RemoveItem)
	c.Delete("/:customerId/services/:serviceId", cc.RemoveService)
	c.Delete("/:customerId", cc.ClearCart)
}
