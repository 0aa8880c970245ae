package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guardia/guardia/internal/platform/auth"
)

const apiPrefix = "/api/v1/"

// AuditEntry records who touched which desk record and how.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Entity     string
	EntityID   string
	Action     string // read, create, update, delete
	IPAddress  string
	Path       string
	Method     string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// Audit logs every /api/v1 request as an audit event after the handler runs.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, apiPrefix) {
				return next(c)
			}

			err := next(c)

			entry := buildAuditEntry(c)
			if he, ok := err.(*echo.HTTPError); ok {
				entry.StatusCode = he.Code
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("entity", entry.Entity).
				Str("entity_id", entry.EntityID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Time("at", entry.Timestamp).
				Msg("desk_access")

			return err
		}
	}
}

func buildAuditEntry(c echo.Context) AuditEntry {
	req := c.Request()
	ctx := req.Context()
	entity, id := splitAPIPath(req.URL.Path)
	rid, _ := c.Get(RequestIDKey).(string)

	return AuditEntry{
		UserID:     auth.UserIDFromContext(ctx),
		UserRoles:  auth.RolesFromContext(ctx),
		Entity:     entity,
		EntityID:   id,
		Action:     httpMethodToAction(req.Method),
		IPAddress:  c.RealIP(),
		Path:       req.URL.Path,
		Method:     req.Method,
		RequestID:  rid,
		StatusCode: c.Response().Status,
		Timestamp:  time.Now().UTC(),
	}
}

func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// splitAPIPath maps /api/v1/patients/<uuid>/... to ("patients", "<uuid>").
func splitAPIPath(path string) (entity, id string) {
	segments := strings.Split(strings.TrimPrefix(path, apiPrefix), "/")
	entity = segments[0]
	if entity == "" {
		entity = "unknown"
	}
	if len(segments) > 1 {
		if _, err := uuid.Parse(segments[1]); err == nil {
			id = segments[1]
		}
	}
	return entity, id
}
