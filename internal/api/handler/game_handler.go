package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/api/metrics"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// GameHandler handles the public spin endpoint and the dashboard.
type GameHandler struct {
	gameService ports.GameService
}

func NewGameHandler(gameService ports.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type spinRequest struct {
	VisitorName  string `json:"visitor_name" validate:"required,min=2"`
	VisitorPhone string `json:"visitor_phone,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
}

// Spin handles POST /play/:slug/spin: one wheel spin by a visitor.
//
// @Summary      Spin the wheel
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        slug  path      string       true  "Company slug"
// @Param        body  body      spinRequest  true  "Visitor details"
// @Success      200   {object}  ports.SpinResult
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /play/{slug}/spin [post]
func (h *GameHandler) Spin(c echo.Context) error {
	var req spinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.gameService.Spin(c.Request().Context(), ports.SpinInput{
		Slug:         c.Param("slug"),
		VisitorName:  req.VisitorName,
		VisitorPhone: req.VisitorPhone,
		SessionID:    req.SessionID,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		metrics.SpinsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.SpinsTotal.WithLabelValues("won").Inc()
	return c.JSON(http.StatusOK, result)
}

// Dashboard handles GET /companies/:id/dashboard: spin statistics for the
// company's own account.
//
// @Summary      Company dashboard statistics
// @Tags         companies
// @Produce      json
// @Security     SessionCookie
// @Param        id  path      string  true  "Company ID"
// @Success      200  {object}  domain.SpinStats
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /companies/{id}/dashboard [get]
func (h *GameHandler) Dashboard(c echo.Context) error {
	id := c.Param("id")
	if _, err := requireOwner(c, id); err != nil {
		return err
	}

	stats, err := h.gameService.Dashboard(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
