package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ✅ Success Response (default 200) dengan envelope {ok:true, data:...}
func JsonOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"data": data,
	})
}

// ✅ Success Response tanpa data (untuk PATCH yang hanya butuh ack)
func JsonAck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// ✅ Success Response dengan field tambahan di level atas (mis. {ok, progress})
func JsonOKFields(c *fiber.Ctx, fields fiber.Map) error {
	body := fiber.Map{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// ✅ Error Response sederhana: {ok:false, error:<code-or-message>}
func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"ok":    false,
		"error": message,
	})
}

// ✅ Error Response advance, bisa kirim multiple field error
func JsonErrorWithDetails(c *fiber.Ctx, code int, message string, errors interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"ok":     false,
		"error":  message,
		"errors": errors,
	})
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "invalid_payload")
	}

	errorsMap := make(map[string]string)
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag() // bisa diganti jadi pesan kustom
	}

	return JsonErrorWithDetails(c, fiber.StatusBadRequest, "invalid_payload", errorsMap)
}
