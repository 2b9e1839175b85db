package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	paymentService "admisi_backend/internals/features/admission/payments/service"
	helper "admisi_backend/internals/helpers"
)

type PaymentController struct {
	Service *paymentService.PaymentService
}

func NewPaymentController(svc *paymentService.PaymentService) *PaymentController {
	return &PaymentController{Service: svc}
}

func (ctrl *PaymentController) MidtransWebhookPing(c *fiber.Ctx) error {
	log.Println("✅ Midtrans ping (GET) received")
	return c.Status(fiber.StatusOK).SendString("OK")
}

// POST /api/payments/notification
func (ctrl *PaymentController) MidtransNotification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid_payload")
	}

	orderID, ok := body["order_id"].(string)
	if !ok || orderID == "" {
		log.Println("[ERROR] Payload webhook tidak lengkap:", body)
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid_payload")
	}

	if err := ctrl.Service.HandlePaymentNotification(c.UserContext(), orderID); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal_error")
	}
	return helper.JsonAck(c)
}
