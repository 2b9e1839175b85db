package route

import (
	"github.com/gofiber/fiber/v2"

	"admisi_backend/internals/features/admission/payments/controller"
	paymentService "admisi_backend/internals/features/admission/payments/service"
	"admisi_backend/internals/salesforce"
)

// PaymentRoutes: webhook Midtrans (path ini di-skip auth middleware).
func PaymentRoutes(r fiber.Router, store salesforce.Store) {
	ctrl := controller.NewPaymentController(paymentService.NewPaymentService(store))

	r.Get("/payments/notification", ctrl.MidtransWebhookPing)
	r.Post("/payments/notification", ctrl.MidtransNotification)
}
