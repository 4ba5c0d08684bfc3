package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"teamdesk/internal/service"
)

// ClientHandler handles billing client endpoints.
type ClientHandler struct {
	svc service.ClientService
}

// NewClientHandler creates a new client handler.
func NewClientHandler(svc service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// ClientRequest is the body of POST /clients.
type ClientRequest struct {
	ID        string          `json:"id,omitempty" swaggerignore:"true"`
	LegacyID  string          `json:"_id,omitempty" swaggerignore:"true"`
	Name      string          `json:"name" validate:"required,max=255"`
	Email     string          `json:"email,omitempty" validate:"omitempty,email"`
	Address   string          `json:"address,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty" swaggerignore:"true"`
}

// ListClients godoc
// @Summary List clients
// @Tags clients
// @Produce json
// @Security SessionToken
// @Success 200 {array} model.Client
// @Failure 401 {object} errors.ErrorResponse
// @Router /clients [get]
func (h *ClientHandler) ListClients(c echo.Context) error {
	clients, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, clients)
}

// CreateClient godoc
// @Summary Create client
// @Tags clients
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body ClientRequest true "Client"
// @Success 201 {object} model.Client
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req ClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	client, err := h.svc.Create(c.Request().Context(), req.Name, req.Email, req.Address)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, client)
}

// DeleteClient godoc
// @Summary Delete client
// @Tags clients
// @Produce json
// @Security SessionToken
// @Param id path string true "Client ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "client deleted"})
}
