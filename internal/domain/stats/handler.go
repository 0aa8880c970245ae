package stats

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guardia/guardia/internal/platform/apperr"
	"github.com/guardia/guardia/internal/platform/auth"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/stats", auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleClerk))
	g.GET("/dashboard", h.Dashboard)
	g.GET("/priorities", h.PriorityBreakdown)
	g.GET("/resources", h.ResourcesByStatus)
	g.GET("/export", h.Export, auth.RequireRole(auth.RolePhysician))
}

func (h *Handler) Dashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

// PriorityBreakdown takes ?date=YYYY-MM-DD; blank is today.
func (h *Handler) PriorityBreakdown(c echo.Context) error {
	day, err := h.svc.ParseDay(strings.TrimSpace(c.QueryParam("date")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	counts, err := h.svc.PriorityBreakdown(c.Request().Context(), day)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":   day.Format("2006-01-02"),
		"counts": counts,
	})
}

func (h *Handler) ResourcesByStatus(c echo.Context) error {
	counts, err := h.svc.ResourcesByStatus(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if counts == nil {
		counts = []Count{}
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *Handler) Export(c echo.Context) error {
	day, err := h.svc.ParseDay(strings.TrimSpace(c.QueryParam("date")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	var buf bytes.Buffer
	if err := h.svc.WriteWorkbook(c.Request().Context(), &buf, day); err != nil {
		return apperr.ToHTTP(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+ExportFilename(day)+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
