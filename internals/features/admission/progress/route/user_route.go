package route

import (
	"github.com/gofiber/fiber/v2"

	"admisi_backend/internals/features/admission/progress/controller"
	progressService "admisi_backend/internals/features/admission/progress/service"
	"admisi_backend/internals/middlewares"
)

// ProgressUserRoutes: endpoint progress untuk applicant (sudah lewat auth).
func ProgressUserRoutes(r fiber.Router, svc *progressService.ProgressService) {
	ctrl := controller.NewProgressController(svc)

	r.Get("/progress", ctrl.List)
	r.Get("/progress/:id", ctrl.Detail)
	r.Patch("/progress/:id", middlewares.PatchRateLimiter(), ctrl.Patch)
}
