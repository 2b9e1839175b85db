package route

import (
	"github.com/gofiber/fiber/v2"

	"admisi_backend/internals/features/admission/files/controller"
	"admisi_backend/internals/salesforce"
)

func FileUserRoutes(r fiber.Router, store salesforce.Store) {
	ctrl := controller.NewFileController(store)

	r.Get("/files/version/:versionId/data", ctrl.VersionData)
}
