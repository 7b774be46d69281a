package handler

import (
	"github.com/gofiber/fiber/v2"

	"mynotes/internal/apperr"
	"mynotes/internal/auth"
	"mynotes/internal/service"
)

// decodeJSON parses the body with the app's JSON decoder regardless of the
// Content-Type header.
func decodeJSON(c *fiber.Ctx, v any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), v); err != nil {
		return apperr.Invalid("decode body", err)
	}
	return nil
}

// CreateNote godoc
// @Summary Create a text note
// @Description Detects the languages of the text and stores the note with the extracted entities as labels.
// @Tags notes
// @Accept json
// @Param note body service.NoteInput true "note"
// @Success 200
// @Failure 400
// @Failure 401
// @Failure 500
// @Security BearerAuth
// @Router /notes [post]
func CreateNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NoteInput
		if err := decodeJSON(c, &in); err != nil {
			return err
		}
		if _, err := svc.Create(c.UserContext(), auth.Owner(c), in); err != nil {
			return err
		}
		return sendStatus(c, fiber.StatusOK)
	}
}

// UpdateNote godoc
// @Summary Replace a text note
// @Description Re-runs enrichment and upserts the note at the given id.
// @Tags notes
// @Accept json
// @Param id path string true "note id"
// @Param note body service.NoteInput true "note"
// @Success 200
// @Failure 400
// @Failure 401
// @Failure 500
// @Security BearerAuth
// @Router /notes/{id} [put]
func UpdateNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NoteInput
		if err := decodeJSON(c, &in); err != nil {
			return err
		}
		if _, err := svc.Update(c.UserContext(), auth.Owner(c), c.Params("id"), in); err != nil {
			return err
		}
		return sendStatus(c, fiber.StatusOK)
	}
}

// ListNotes godoc
// @Summary List the caller's notes
// @Tags notes
// @Produce json
// @Success 200 {object} model.Page[model.NoteResponse]
// @Failure 401
// @Failure 500
// @Security BearerAuth
// @Router /notes [get]
func ListNotes(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.List(c.UserContext(), auth.Owner(c))
		if err != nil {
			return err
		}
		return c.JSON(page)
	}
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Deleting a missing note succeeds.
// @Tags notes
// @Param id path string true "note id"
// @Success 200
// @Failure 401
// @Failure 500
// @Security BearerAuth
// @Router /notes/{id} [delete]
func DeleteNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), auth.Owner(c), c.Params("id")); err != nil {
			return err
		}
		return sendStatus(c, fiber.StatusOK)
	}
}
