package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gramatike/gramatike-api/internal/services"
)

type FeedHandler struct {
	feedService *services.FeedService
}

func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// Search composes the unified stream: system posts, novidades and active
// dynamics, with educational content only when include_edu is set.
func (h *FeedHandler) Search(c *fiber.Ctx) error {
	items, err := h.feedService.Compose(c.Query("q"), c.QueryBool("include_edu", false))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"items": items, "total": len(items)})
}
