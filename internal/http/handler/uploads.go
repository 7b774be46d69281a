package handler

import (
	"github.com/gofiber/fiber/v2"

	"mynotes/internal/auth"
	"mynotes/internal/service"
)

// IssueUpload godoc
// @Summary Get a signed upload URL
// @Description The note appears once the upload has been processed.
// @Tags uploads
// @Accept json
// @Produce json
// @Param upload body service.UploadInput true "file name"
// @Success 200 {object} service.SignedURL
// @Failure 400
// @Failure 401
// @Failure 500
// @Security BearerAuth
// @Router /uploads [post]
func IssueUpload(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UploadInput
		if err := decodeJSON(c, &in); err != nil {
			return err
		}
		signed, err := svc.IssueUpload(c.UserContext(), auth.Owner(c), in)
		if err != nil {
			return err
		}
		return c.JSON(signed)
	}
}

// IssueDownload godoc
// @Summary Get a signed download URL for a stored note
// @Tags uploads
// @Produce json
// @Param id path string true "note id"
// @Success 200 {object} service.SignedURL
// @Failure 400
// @Failure 401
// @Failure 404
// @Failure 500
// @Security BearerAuth
// @Router /uploads/{id} [get]
func IssueDownload(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signed, err := svc.IssueDownload(c.UserContext(), auth.Owner(c), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(signed)
	}
}
