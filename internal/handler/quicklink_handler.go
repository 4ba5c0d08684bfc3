package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"teamdesk/internal/service"
)

// QuickLinkHandler handles bookmark endpoints.
type QuickLinkHandler struct {
	svc service.QuickLinkService
}

// NewQuickLinkHandler creates a new quick-link handler.
func NewQuickLinkHandler(svc service.QuickLinkService) *QuickLinkHandler {
	return &QuickLinkHandler{svc: svc}
}

// QuickLinkRequest is the body of POST /quicklinks.
type QuickLinkRequest struct {
	ID          string          `json:"id,omitempty" swaggerignore:"true"`
	LegacyID    string          `json:"_id,omitempty" swaggerignore:"true"`
	Title       string          `json:"title" validate:"required,max=255"`
	URL         string          `json:"url" validate:"required,url,max=2048"`
	Description string          `json:"description,omitempty"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty" swaggerignore:"true"`
}

// ListQuickLinks godoc
// @Summary List quick links
// @Tags quicklinks
// @Produce json
// @Security SessionToken
// @Success 200 {array} model.QuickLink
// @Failure 401 {object} errors.ErrorResponse
// @Router /quicklinks [get]
func (h *QuickLinkHandler) ListQuickLinks(c echo.Context) error {
	links, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, links)
}

// CreateQuickLink godoc
// @Summary Create quick link
// @Tags quicklinks
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body QuickLinkRequest true "Quick link"
// @Success 201 {object} model.QuickLink
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /quicklinks [post]
func (h *QuickLinkHandler) CreateQuickLink(c echo.Context) error {
	var req QuickLinkRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	link, err := h.svc.Create(c.Request().Context(), req.Title, req.URL, req.Description)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, link)
}

// DeleteQuickLink godoc
// @Summary Delete quick link
// @Tags quicklinks
// @Produce json
// @Security SessionToken
// @Param id path string true "Quick link ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /quicklinks/{id} [delete]
func (h *QuickLinkHandler) DeleteQuickLink(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "quick link deleted"})
}
