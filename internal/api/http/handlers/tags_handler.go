package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// TagsHandler exposes the tag catalog.
type TagsHandler struct {
	tags *service.TagService
}

// NewTagsHandler returns handler.
func NewTagsHandler(tagService *service.TagService) *TagsHandler {
	return &TagsHandler{tags: tagService}
}

// Create handles POST /users/createTagCategory.
func (h *TagsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.Create(c.UserContext(), req.CategoryName)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewTagResponse(tag))
}

// List handles GET /users/getAllTags.
func (h *TagsHandler) List(c *fiber.Ctx) error {
	tags, err := h.tags.List(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTagResponses(tags))
}
