package handlers

import (
	"github.com/gofiber/fiber/v3"

	"go301/internal/metrics"
	"go301/internal/redirects"
)

// ResolveHandler installs the redirect resolver into the request pipeline.
type ResolveHandler struct {
	repo *redirects.Repository
}

// NewResolveHandler creates a new resolver handler.
func NewResolveHandler(repo *redirects.Repository) *ResolveHandler {
	return &ResolveHandler{repo: repo}
}

// Middleware matches the request path and query against the rule table.
// On a hit the client gets a permanent redirect to the rule's target; on a
// miss the request continues down the pipeline.
func (h *ResolveHandler) Middleware(c fiber.Ctx) error {
	match, ok := h.repo.Resolve(c.Context(), c.OriginalURL())
	if !ok {
		metrics.RecordResolve(metrics.OutcomeMiss)
		return c.Next()
	}

	if match.IsRegex {
		metrics.RecordResolve(metrics.OutcomeRegex)
	} else {
		metrics.RecordResolve(metrics.OutcomeExact)
	}
	return c.Redirect().Status(fiber.StatusMovedPermanently).To(match.NewURL)
}
