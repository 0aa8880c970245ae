package resource

import (
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
	desk.GET("/resources", h.ListResources)
	desk.GET("/resources/critical", h.CriticalResources)
	desk.GET("/resources/:id", h.GetResource)

	// Nurses keep the stock counts current.
	stock := api.Group("", auth.RequireRole(auth.RoleNurse))
	stock.POST("/resources", h.CreateResource)
	stock.PUT("/resources/:id", h.UpdateResource)

	admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.DELETE("/resources/:id", h.DeleteResource)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) CreateResource(c echo.Context) error {
	var r Resource
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateResource(c.Request().Context(), &r); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetResource(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.GetResource(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListResources(c echo.Context) error {
	pg := pagination.FromContext(c)
	q := strings.TrimSpace(c.QueryParam("q"))
	items, total, err := h.svc.SearchResources(c.Request().Context(), q, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CriticalResources(c echo.Context) error {
	items, err := h.svc.Critical(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if items == nil {
		items = []*Resource{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"threshold": h.svc.Threshold(),
		"items":     items,
	})
}

func (h *Handler) UpdateResource(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var r Resource
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = id
	if err := h.svc.UpdateResource(c.Request().Context(), &r); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteResource(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteResource(c.Request().Context(), id); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
