package handlers

import (
	"github.com/gofiber/fiber/v3"

	"go301/internal/redirects"
)

// AdminHandler renders the redirect management page.
type AdminHandler struct {
	repo *redirects.Repository
}

// NewAdminHandler creates a new admin page handler.
func NewAdminHandler(repo *redirects.Repository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// Index renders the redirect table.
func (h *AdminHandler) Index(c fiber.Ctx) error {
	rules, err := h.repo.GetAll(c.Context())
	if err != nil {
		return err
	}

	return c.Render("redirects", fiber.Map{
		"Title":     "Redirect Manager",
		"Redirects": rules,
	})
}
