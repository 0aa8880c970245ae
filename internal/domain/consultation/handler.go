package consultation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/guardia/guardia/internal/platform/apperr"
	"github.com/guardia/guardia/internal/platform/auth"
	"github.com/guardia/guardia/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	desk := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleClerk))
	desk.POST("/triage/suggest", h.Suggest)
	desk.GET("/waiting-list", h.WaitingList)
	desk.GET("/consultations", h.ListConsultations)
	desk.GET("/consultations/recent", h.RecentConsultations)
	desk.GET("/consultations/:id", h.GetConsultation)
	desk.POST("/consultations", h.CreateConsultation)
	desk.PATCH("/consultations/:id/status", h.UpdateStatus)

	// Clinical edits: diagnosis, treatment and re-prioritisation.
	clinical := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse))
	clinical.PUT("/consultations/:id", h.UpdateConsultation)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.DELETE("/consultations/:id", h.DeleteConsultation)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// SuggestRequest is sent on every edit of the complaint field. Age may be a
// number or free text; it is only used when the patient has none on file.
type SuggestRequest struct {
	Complaint string          `json:"complaint"`
	PatientID *uuid.UUID      `json:"patient_id,omitempty"`
	Age       json.RawMessage `json:"age,omitempty"`
}

func (r SuggestRequest) ageText() string {
	raw := strings.TrimSpace(string(r.Age))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Age, &s); err == nil {
		return s
	}
	return raw
}

func (h *Handler) Suggest(c echo.Context) error {
	var req SuggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s := h.svc.Suggest(c.Request().Context(), req.Complaint, req.PatientID, req.ageText())
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) WaitingList(c echo.Context) error {
	items, err := h.svc.WaitingList(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if items == nil {
		items = []*Consultation{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateConsultation(c echo.Context) error {
	var cons Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateConsultation(c.Request().Context(), &cons); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, cons)
}

func (h *Handler) GetConsultation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cons, err := h.svc.GetConsultation(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, cons)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	pg := pagination.FromContext(c)
	q := strings.TrimSpace(c.QueryParam("q"))
	items, total, err := h.svc.SearchConsultations(c.Request().Context(), q, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecentConsultations(c echo.Context) error {
	items, err := h.svc.RecentConsultations(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if items == nil {
		items = []*Consultation{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateConsultation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var cons Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cons.ID = id
	if err := h.svc.UpdateConsultation(c.Request().Context(), &cons); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, cons)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	st, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id.String(), "status": string(st)})
}

func (h *Handler) DeleteConsultation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteConsultation(c.Request().Context(), id); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
