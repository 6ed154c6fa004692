package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/api/metrics"
	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// InfluencerHandler handles influencer registration, the public giveaway
// pages, and the admin review workflow.
type InfluencerHandler struct {
	influencerService ports.InfluencerService
}

func NewInfluencerHandler(influencerService ports.InfluencerService) *InfluencerHandler {
	return &InfluencerHandler{influencerService: influencerService}
}

// --- Request / Response types ---

type registerInfluencerRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Platform       string   `json:"platform" validate:"required"`
	CustomPlatform string   `json:"custom_platform,omitempty"`
	Username       string   `json:"username" validate:"required"`
	ProfileURL     string   `json:"profile_url,omitempty" validate:"omitempty,url"`
	FollowersCount int      `json:"followers_count,omitempty"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone,omitempty"`
	Prizes         []string `json:"prizes" validate:"required,min=1,dive,required"`
}

type registerInfluencerResponse struct {
	Influencer       *domain.Influencer `json:"influencer"`
	RegistrationPath string             `json:"registration_path"`
	WheelPath        string             `json:"wheel_path"`
}

// giveawayConfigResponse is the public giveaway configuration. Contact
// details of the influencer stay hidden.
type giveawayConfigResponse struct {
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Platform         string   `json:"platform"`
	Username         string   `json:"username"`
	Prizes           []string `json:"prizes"`
	Colors           []string `json:"colors"`
	IsActive         bool     `json:"is_active"`
	ParticipantCount int64    `json:"participant_count"`
}

type addParticipantRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Phone         string `json:"phone" validate:"required"`
	SocialAccount string `json:"social_media_account" validate:"required"`
	City          string `json:"city" validate:"required"`
}

type addParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
}

type participantCountResponse struct {
	Count int64 `json:"count"`
}

// Register handles POST /influencers: public signup of a new influencer
// profile. The profile stays pending until an admin approves it.
//
// @Summary      Register an influencer
// @Tags         influencers
// @Accept       json
// @Produce      json
// @Param        body  body      registerInfluencerRequest  true  "Influencer details"
// @Success      201   {object}  registerInfluencerResponse
// @Failure      400   {object}  map[string]string
// @Router       /influencers [post]
func (h *InfluencerHandler) Register(c echo.Context) error {
	var req registerInfluencerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	influencer, err := h.influencerService.Register(c.Request().Context(), ports.RegisterInfluencerInput{
		Name:           req.Name,
		Platform:       req.Platform,
		CustomPlatform: req.CustomPlatform,
		Username:       req.Username,
		ProfileURL:     req.ProfileURL,
		FollowersCount: req.FollowersCount,
		Email:          req.Email,
		Phone:          req.Phone,
		Prizes:         req.Prizes,
	})
	if err != nil {
		return err
	}
	metrics.InfluencersRegisteredTotal.WithLabelValues(influencer.Platform).Inc()

	return c.JSON(http.StatusCreated, registerInfluencerResponse{
		Influencer:       influencer,
		RegistrationPath: "/influencers/" + influencer.Slug,
		WheelPath:        "/influencers/" + influencer.Slug + "/draw",
	})
}

// GiveawayConfig handles GET /influencers/:slug: the public giveaway page
// configuration, including the live participant count.
//
// @Summary      Public giveaway configuration
// @Tags         influencers
// @Produce      json
// @Param        slug  path      string  true  "Influencer slug"
// @Success      200   {object}  giveawayConfigResponse
// @Failure      404   {object}  map[string]string
// @Router       /influencers/{slug} [get]
func (h *InfluencerHandler) GiveawayConfig(c echo.Context) error {
	slug := c.Param("slug")
	influencer, err := h.influencerService.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		return err
	}
	count, err := h.influencerService.ParticipantCount(c.Request().Context(), slug)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, giveawayConfigResponse{
		Name:             influencer.Name,
		Slug:             influencer.Slug,
		Platform:         influencer.FinalPlatform(),
		Username:         influencer.Username,
		Prizes:           influencer.Prizes,
		Colors:           influencer.Colors,
		IsActive:         influencer.IsActive,
		ParticipantCount: count,
	})
}

// AddParticipant handles POST /influencers/:slug/participants: a follower
// signing up for the giveaway draw.
//
// @Summary      Register a giveaway participant
// @Tags         influencers
// @Accept       json
// @Produce      json
// @Param        slug  path      string                 true  "Influencer slug"
// @Param        body  body      addParticipantRequest  true  "Participant details"
// @Success      201   {object}  addParticipantResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /influencers/{slug}/participants [post]
func (h *InfluencerHandler) AddParticipant(c echo.Context) error {
	var req addParticipantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	participant, err := h.influencerService.AddParticipant(c.Request().Context(), c.Param("slug"), ports.ParticipantInput{
		Name:          req.Name,
		Phone:         req.Phone,
		SocialAccount: req.SocialAccount,
		City:          req.City,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, addParticipantResponse{ParticipantID: participant.ID})
}

// ParticipantCount handles GET /influencers/:slug/participants/count: the
// giveaway page polls this while waiting for the draw.
//
// @Summary      Current participant count
// @Tags         influencers
// @Produce      json
// @Param        slug  path      string  true  "Influencer slug"
// @Success      200   {object}  participantCountResponse
// @Failure      404   {object}  map[string]string
// @Router       /influencers/{slug}/participants/count [get]
func (h *InfluencerHandler) ParticipantCount(c echo.Context) error {
	count, err := h.influencerService.ParticipantCount(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, participantCountResponse{Count: count})
}

// Draw handles POST /influencers/:slug/draw: picks a random prize and a
// random registered participant. The winner's contact details come back
// masked.
//
// @Summary      Draw a giveaway winner
// @Tags         influencers
// @Produce      json
// @Param        slug  path      string  true  "Influencer slug"
// @Success      200   {object}  ports.DrawResult
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /influencers/{slug}/draw [post]
func (h *InfluencerHandler) Draw(c echo.Context) error {
	result, err := h.influencerService.Draw(c.Request().Context(), c.Param("slug"))
	if err != nil {
		metrics.DrawsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.DrawsTotal.WithLabelValues("won").Inc()
	return c.JSON(http.StatusOK, result)
}

// Approve handles POST /admin/influencers/:id/approve.
//
// @Summary      Approve a pending influencer
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id  path      string  true  "Influencer ID"
// @Success      200  {object}  domain.Influencer
// @Failure      404  {object}  map[string]string
// @Router       /admin/influencers/{id}/approve [post]
func (h *InfluencerHandler) Approve(c echo.Context) error {
	influencer, err := h.influencerService.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, influencer)
}

// Reject handles POST /admin/influencers/:id/reject.
//
// @Summary      Reject a pending influencer
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id  path      string  true  "Influencer ID"
// @Success      200  {object}  domain.Influencer
// @Failure      404  {object}  map[string]string
// @Router       /admin/influencers/{id}/reject [post]
func (h *InfluencerHandler) Reject(c echo.Context) error {
	influencer, err := h.influencerService.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, influencer)
}

// ExportParticipants handles GET /admin/influencers/:id/participants/export:
// downloads the full participant list as CSV. Contact details are exported
// unmasked, which is why this sits behind the admin guard.
//
// @Summary      Export participants as CSV
// @Tags         admin
// @Produce      text/csv
// @Security     SessionCookie
// @Param        id  path  string  true  "Influencer ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /admin/influencers/{id}/participants/export [get]
func (h *InfluencerHandler) ExportParticipants(c echo.Context) error {
	id := c.Param("id")
	influencer, err := h.influencerService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	participants, err := h.influencerService.Participants(c.Request().Context(), id)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("participants_%s_%s.csv", influencer.Slug, time.Now().UTC().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"id", "name", "phone", "social_media_account", "city", "registered_at"}); err != nil {
		return err
	}
	for _, p := range participants {
		row := []string{p.ID, p.Name, p.Phone, p.SocialAccount, p.City, p.CreatedAt.UTC().Format("2006-01-02 15:04")}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
