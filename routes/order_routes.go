package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/controller"
	"github.com/sithumisanilka/Technova/service"
)

func RegisterOrderRoutes(app *fiber.App, orders *service.OrderService, authMiddleware fiber.Handler) {
	oc := &controller.OrderController{Orders: orders}

	api := app.Group("/api")
	o := api.Group("/orders", authMiddleware)

	o.Post("/checkout", oc.Checkout)
	o.Post("/checkout/receipt", oc.CheckoutWithReceipt)
	o.Get("/", oc.List)
	o.Get("/number/:orderNumber", oc.GetByNumber)
	o.Get("/:id", oc.Get)
	o.Get("/:id/receipt", oc.GetReceipt)
	o.Put("/:id/status", oc.UpdateStatus)
}
