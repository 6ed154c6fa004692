package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/api/metrics"
	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// CompanyHandler handles company registration, the public play-page
// configuration, and the admin review workflow.
type CompanyHandler struct {
	authService    ports.AuthService
	companyService ports.CompanyService
}

func NewCompanyHandler(authService ports.AuthService, companyService ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{authService: authService, companyService: companyService}
}

// --- Request / Response types ---

type registerCompanyRequest struct {
	Name             string   `json:"name" validate:"required,min=2"`
	Type             string   `json:"type" validate:"required"`
	CustomType       string   `json:"custom_type,omitempty"`
	Email            string   `json:"email" validate:"required,email"`
	Phone            string   `json:"phone,omitempty"`
	Prizes           []string `json:"prizes" validate:"required,min=1,dive,required"`
	PrizePercentages []int    `json:"prize_percentages,omitempty"`
	LogoURL          string   `json:"logo_url,omitempty"`
}

type registerCompanyResponse struct {
	Company      *domain.Company `json:"company"`
	TempPassword string          `json:"temp_password"`
	PlayPath     string          `json:"play_path"`
}

// playConfigResponse is the public wheel configuration. It deliberately
// exposes nothing about the account behind the slug beyond what the wheel
// page needs to render.
type playConfigResponse struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Type     string   `json:"type"`
	LogoURL  string   `json:"logo_url,omitempty"`
	Prizes   []string `json:"prizes"`
	Colors   []string `json:"colors"`
	IsActive bool     `json:"is_active"`
}

type activateRequest struct {
	Hours int `json:"hours" validate:"required,min=1,max=168"`
}

type addScheduleRequest struct {
	Monday        bool `json:"monday"`
	Tuesday       bool `json:"tuesday"`
	Wednesday     bool `json:"wednesday"`
	Thursday      bool `json:"thursday"`
	Friday        bool `json:"friday"`
	Saturday      bool `json:"saturday"`
	Sunday        bool `json:"sunday"`
	StartHour     int  `json:"start_hour" validate:"min=0,max=23"`
	EndHour       int  `json:"end_hour" validate:"min=1,max=24"`
	DurationHours int  `json:"duration_hours" validate:"required,min=1,max=168"`
}

// Register handles POST /companies: public signup of a new company account.
// The temporary password appears in this response and nowhere else.
//
// @Summary      Register a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body      registerCompanyRequest  true  "Company details"
// @Success      201   {object}  registerCompanyResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /companies [post]
func (h *CompanyHandler) Register(c echo.Context) error {
	var req registerCompanyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Phone != "" && !domain.ValidVisitorPhone(req.Phone) {
		return domain.ErrInvalidPhone
	}

	result, err := h.authService.CreateCompanyAccount(c.Request().Context(), ports.CreateCompanyInput{
		Name:             req.Name,
		Type:             req.Type,
		CustomType:       req.CustomType,
		Email:            req.Email,
		Phone:            req.Phone,
		Prizes:           req.Prizes,
		PrizePercentages: req.PrizePercentages,
		LogoURL:          req.LogoURL,
	})
	if err != nil {
		return err
	}
	metrics.CompaniesRegisteredTotal.WithLabelValues(result.Company.Type).Inc()

	return c.JSON(http.StatusCreated, registerCompanyResponse{
		Company:      result.Company,
		TempPassword: result.TempPassword,
		PlayPath:     result.PlayPath,
	})
}

// PlayConfig handles GET /play/:slug: the public wheel configuration for a
// visitor landing on a company's link.
//
// @Summary      Public play-page configuration
// @Tags         play
// @Produce      json
// @Param        slug  path      string  true  "Company slug"
// @Success      200   {object}  playConfigResponse
// @Failure      404   {object}  map[string]string
// @Router       /play/{slug} [get]
func (h *CompanyHandler) PlayConfig(c echo.Context) error {
	company, err := h.companyService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	// Pending and rejected companies stay invisible to visitors.
	if company.Status != domain.StatusApproved {
		return domain.ErrCompanyNotFound
	}

	return c.JSON(http.StatusOK, playConfigResponse{
		Name:     company.Name,
		Slug:     company.Slug,
		Type:     company.FinalType(),
		LogoURL:  company.LogoURL,
		Prizes:   company.Prizes,
		Colors:   company.Colors,
		IsActive: company.CurrentlyActive(time.Now().UTC()),
	})
}

// Get handles GET /companies/:id. A company session may only read its own
// record; admins may read any.
//
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Security     SessionCookie
// @Param        id  path      string  true  "Company ID"
// @Success      200  {object}  domain.Company
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if _, err := requireOwner(c, id); err != nil {
		return err
	}

	company, err := h.companyService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// Approve handles POST /admin/companies/:id/approve.
//
// @Summary      Approve a pending company
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id  path      string  true  "Company ID"
// @Success      200  {object}  domain.Company
// @Failure      404  {object}  map[string]string
// @Router       /admin/companies/{id}/approve [post]
func (h *CompanyHandler) Approve(c echo.Context) error {
	company, err := h.companyService.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// Reject handles POST /admin/companies/:id/reject.
//
// @Summary      Reject a pending company
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id  path      string  true  "Company ID"
// @Success      200  {object}  domain.Company
// @Failure      404  {object}  map[string]string
// @Router       /admin/companies/{id}/reject [post]
func (h *CompanyHandler) Reject(c echo.Context) error {
	company, err := h.companyService.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// ActivateNow handles POST /admin/companies/:id/activate: opens a playable
// window starting immediately.
//
// @Summary      Activate a company's wheel now
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string           true  "Company ID"
// @Param        body  body      activateRequest  true  "Window length"
// @Success      200   {object}  domain.Company
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/companies/{id}/activate [post]
func (h *CompanyHandler) ActivateNow(c echo.Context) error {
	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	company, err := h.companyService.ActivateNow(c.Request().Context(), c.Param("id"), req.Hours)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// AddSchedule handles POST /admin/companies/:id/schedules: attaches a weekly
// recurring activation window.
//
// @Summary      Add a weekly activation schedule
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string              true  "Company ID"
// @Param        body  body      addScheduleRequest  true  "Schedule"
// @Success      201   {object}  domain.ActivationSchedule
// @Failure      400   {object}  map[string]string
// @Router       /admin/companies/{id}/schedules [post]
func (h *CompanyHandler) AddSchedule(c echo.Context) error {
	var req addScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	schedule, err := h.companyService.AddSchedule(c.Request().Context(), &domain.ActivationSchedule{
		CompanyID:     c.Param("id"),
		Monday:        req.Monday,
		Tuesday:       req.Tuesday,
		Wednesday:     req.Wednesday,
		Thursday:      req.Thursday,
		Friday:        req.Friday,
		Saturday:      req.Saturday,
		Sunday:        req.Sunday,
		StartHour:     req.StartHour,
		EndHour:       req.EndHour,
		DurationHours: req.DurationHours,
		IsActive:      true,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, schedule)
}
