package handlers

import (
	"github.com/gofiber/fiber/v3"

	"go301/internal/redirects"
)

// ImportHandler serves CSV bulk imports of redirect rules.
type ImportHandler struct {
	repo *redirects.Repository
}

// NewImportHandler creates a new bulk import handler.
func NewImportHandler(repo *redirects.Repository) *ImportHandler {
	return &ImportHandler{repo: repo}
}

// Upload reads an uploaded CSV file of oldUrl,newUrl[,notes] rows and adds
// each as an exact-match rule. Bad rows are reported, not fatal.
func (h *ImportHandler) Upload(c fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "a CSV file upload is required")
	}

	file, err := header.Open()
	if err != nil {
		return respondFailure(c, fiber.StatusInternalServerError, "error reading uploaded file")
	}
	defer file.Close()

	report, err := h.repo.ImportCSV(c.Context(), file)
	if err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "could not parse CSV file: "+err.Error())
	}

	return respondSuccess(c, fiber.Map{
		"message":  report.Summary(),
		"imported": report.Imported,
		"failed":   report.Failed,
		"skipped":  report.Skipped,
		"failures": report.Failures,
	})
}
