package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_CreateResource(t *testing.T) {
	svc, _ := newTestService(5)
	h := NewHandler(svc)
	e := echo.New()

	body := `{"kind":"Equipo","name":"Respirador","quantity":2,"status":"Disponible"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.CreateResource(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var r Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "Respirador", r.Name)
	require.NotNil(t, r.Status)
	assert.Equal(t, "Disponible", *r.Status)
}

func TestHandler_CreateResource_Invalid(t *testing.T) {
	svc, _ := newTestService(5)
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resources", strings.NewReader(`{"kind":"Equipo","quantity":-3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	err := h.CreateResource(e.NewContext(req, httptest.NewRecorder()))

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestHandler_CriticalResources(t *testing.T) {
	svc, _ := newTestService(3)
	h := NewHandler(svc)
	e := echo.New()
	require.NoError(t, svc.CreateResource(context.Background(), &Resource{Kind: "Insumo", Name: "Suero", Quantity: 1}))
	require.NoError(t, svc.CreateResource(context.Background(), &Resource{Kind: "Insumo", Name: "Gasas", Quantity: 30}))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/resources/critical", nil), rec)
	require.NoError(t, h.CriticalResources(c))

	var got struct {
		Threshold int        `json:"threshold"`
		Items     []Resource `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Threshold)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Suero", got.Items[0].Name)
}

func TestHandler_GetResource_BadID(t *testing.T) {
	svc, _ := newTestService(5)
	h := NewHandler(svc)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, h.GetResource(c), &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
