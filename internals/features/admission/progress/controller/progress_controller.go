package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"admisi_backend/internals/features/admission/progress/dto"
	progressService "admisi_backend/internals/features/admission/progress/service"
	helper "admisi_backend/internals/helpers"
	authMw "admisi_backend/internals/middlewares/auth"
	"admisi_backend/internals/salesforce"
)

type ProgressController struct {
	Service *progressService.ProgressService
}

func NewProgressController(svc *progressService.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// GET /api/progress — daftar opportunity milik pemanggil (dashboard)
func (ctrl *ProgressController) List(c *fiber.Ctx) error {
	email := authMw.CallerEmail(c)
	if email == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	list, err := ctrl.Service.List(c.UserContext(), email)
	if err != nil {
		return serviceError(c, err)
	}
	return helper.JsonOKFields(c, fiber.Map{
		"applicantName": list.ApplicantName,
		"items":         list.Items,
	})
}

// GET /api/progress/:id — detail lengkap (progress, student, parents,
// documents + versi resolved, photo, payments)
func (ctrl *ProgressController) Detail(c *fiber.Ctx) error {
	email := authMw.CallerEmail(c)
	if email == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id := c.Params("id")
	log.Printf("[%v] HIT /api/progress/%s as %s", c.Locals("reqid"), id, email)

	detail, err := ctrl.Service.Detail(c.UserContext(), email, id)
	if err != nil {
		return serviceError(c, err)
	}
	return helper.JsonOK(c, detail)
}

// PATCH /api/progress/:id — tulis satu segmen saja
func (ctrl *ProgressController) Patch(c *fiber.Ctx) error {
	email := authMw.CallerEmail(c)
	if email == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id := c.Params("id")

	var body dto.PatchRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid_payload")
	}
	if err := ctrl.Service.Validate.Struct(&body); err != nil {
		return helper.ValidationError(c, err)
	}

	// PATCH tunduk pada aturan akses yang sama dengan GET
	if _, err := ctrl.Service.Authorize(c.UserContext(), email, id); err != nil {
		return serviceError(c, err)
	}

	activated, err := ctrl.Service.Patch(c.UserContext(), id, &body)
	if err != nil {
		return serviceError(c, err)
	}
	if activated != nil {
		return helper.JsonOKFields(c, fiber.Map{"progress": activated})
	}
	return helper.JsonAck(c)
}

// serviceError memetakan taxonomy error service ke status + envelope.
// Detail kegagalan remote masuk log, tidak bocor ke caller.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progressService.ErrNotFound), errors.Is(err, salesforce.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "not_found")
	case errors.Is(err, progressService.ErrForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, progressService.ErrNoAccount):
		return helper.JsonError(c, fiber.StatusBadRequest, "no_account_on_opportunity")
	case errors.Is(err, progressService.ErrInvalidPayload):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var remoteErr *salesforce.RemoteError
	if errors.As(err, &remoteErr) {
		log.Printf("[ERROR] Salesforce menolak request: %v", remoteErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "remote_store_failure")
	}

	log.Println("[ERROR] Internal:", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal_error")
}
