package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sithumisanilka/Technova/controller"
	"github.com/sithumisanilka/Technova/service"
)

func RegisterPaymentRoutes(app *fiber.App, payments *service.PaymentService, authMiddleware fiber.Handler) {
	pc := &controller.PaymentController{Payments: payments}

	api := app.Group("/api")
	p := api.Group("/payments", authMiddleware)

	p.Post("/process", pc.Process)
	p.Post("/:id/refund", pc.Refund)
	p.Get("/", pc.ListByStatus)
	p.Get("/number/:paymentNumber", pc.GetByNumber)
	p.Get("/order/:orderId", pc.GetByOrder)
	p.Get("/:id", pc.Get)
}
