package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	helper "admisi_backend/internals/helpers"
	"admisi_backend/internals/salesforce"
)

type FileController struct {
	Store salesforce.Store
}

func NewFileController(store salesforce.Store) *FileController {
	return &FileController{Store: store}
}

// GET /api/files/version/:versionId/data — proxy binary ContentVersion dari
// CRM ke browser (stream, tidak buffer penuh).
func (ctrl *FileController) VersionData(c *fiber.Ctx) error {
	versionID := c.Params("versionId")

	body, contentType, err := ctrl.Store.VersionData(c.UserContext(), versionID)
	if err != nil {
		if errors.Is(err, salesforce.ErrNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "not_found")
		}
		log.Println("[ERROR] Ambil VersionData gagal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "remote_store_failure")
	}

	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.SendStream(body)
}
