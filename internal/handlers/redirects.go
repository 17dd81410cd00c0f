package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"go301/internal/models"
	"go301/internal/redirects"
)

// RedirectHandler serves the redirect CRUD API.
type RedirectHandler struct {
	repo *redirects.Repository
}

// NewRedirectHandler creates a new redirect CRUD handler.
func NewRedirectHandler(repo *redirects.Repository) *RedirectHandler {
	return &RedirectHandler{repo: repo}
}

// GetAll returns every redirect rule.
func (h *RedirectHandler) GetAll(c fiber.Ctx) error {
	rules, err := h.repo.GetAll(c.Context())
	if err != nil {
		return respondFailure(c, fiber.StatusInternalServerError, "failed to fetch redirects")
	}
	return respondSuccess(c, fiber.Map{"redirects": rules})
}

// Add creates a new redirect rule.
func (h *RedirectHandler) Add(c fiber.Ctx) error {
	var body struct {
		IsRegex bool   `json:"is_regex"`
		OldURL  string `json:"old_url"`
		NewURL  string `json:"new_url"`
		Notes   string `json:"notes"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "invalid request body")
	}

	redirect, err := h.repo.Add(c.Context(), body.IsRegex, body.OldURL, body.NewURL, body.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.Map{"redirect": redirect})
}

// Update rewrites an existing redirect rule.
func (h *RedirectHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "invalid redirect id")
	}

	var body struct {
		IsRegex bool   `json:"is_regex"`
		OldURL  string `json:"old_url"`
		NewURL  string `json:"new_url"`
		Notes   string `json:"notes"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "invalid request body")
	}

	redirect, err := h.repo.Update(c.Context(), &models.Redirect{
		ID:      id,
		IsRegex: body.IsRegex,
		OldURL:  body.OldURL,
		NewURL:  body.NewURL,
		Notes:   body.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.Map{"redirect": redirect})
}

// Delete removes a redirect rule by id.
func (h *RedirectHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondFailure(c, fiber.StatusBadRequest, "invalid redirect id")
	}

	if err := h.repo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, fiber.Map{})
}

// ClearCache drops the cached rule set so the next read hits the store.
func (h *RedirectHandler) ClearCache(c fiber.Ctx) error {
	h.repo.ClearCache()
	return respondSuccess(c, fiber.Map{})
}
