package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/guardia/guardia/internal/config"
	"github.com/guardia/guardia/internal/domain/consultation"
	"github.com/guardia/guardia/internal/platform/db"
	"github.com/guardia/guardia/internal/platform/telemetry"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTriageSuggest_Text(t *testing.T) {
	out, err := runCLI(t, "triage", "suggest", "--age", "82", "tos", "persistente")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Priority:       Media (Medium)", "Age:            82", "Vulnerable age: true", "Medium matches: tos persistente"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTriageSuggest_JSON(t *testing.T) {
	out, err := runCLI(t, "triage", "suggest", "--json", "Dolor de pecho")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Priority      string `json:"priority"`
		VulnerableAge bool   `json:"vulnerable_age"`
		Matched       struct {
			High []string `json:"high"`
		} `json:"matched"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if got.Priority != "Alta" || len(got.Matched.High) != 1 {
		t.Errorf("unexpected suggestion: %+v", got)
	}
}

func TestTriageSuggest_UnknownAge(t *testing.T) {
	out, err := runCLI(t, "triage", "suggest", "--age", "abc", "control")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Baja (Low)") || !strings.Contains(out, "Age:            unknown") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTriageSuggest_RequiresComplaint(t *testing.T) {
	if _, err := runCLI(t, "triage", "suggest"); err == nil {
		t.Fatal("expected error without complaint")
	}
}

func TestRenderWaitingList(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	items := []*consultation.Consultation{
		{ID: uuid.New(), Priority: "Alta", PatientName: "Ana Gómez", Reason: "Dolor de pecho", Physician: "Dr. Ríos", ConsultedAt: now.Add(-95 * time.Minute)},
		{ID: uuid.New(), Priority: "Baja", PatientName: "Luis Pérez", Reason: "Control", Physician: "Dra. Paz", ConsultedAt: now.Add(-5 * time.Minute)},
	}
	var buf bytes.Buffer
	renderWaitingList(&buf, items, now)
	out := buf.String()

	for _, want := range []string{"PRIORITY", "Ana Gómez", "1h35m0s", "5m0s", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Ana Gómez") > strings.Index(out, "Luis Pérez") {
		t.Error("rows rendered out of order")
	}
}

func TestRenderMigrationStatus(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer
	renderMigrationStatus(&buf, []db.MigrationStatus{
		{Version: 1, Name: "core", Applied: true, AppliedAt: &at},
		{Version: 2, Name: "indexes"},
	})
	out := buf.String()
	if !strings.Contains(out, "2026-01-02 03:04:05") || !strings.Contains(out, "pending") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("corto", 10); got != "corto" {
		t.Errorf("got %q", got)
	}
	if got := truncate("convulsiones", 5); got != "conv…" {
		t.Errorf("got %q", got)
	}
}

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:                    env,
		CORSOrigins:            []string{"*"},
		RateLimitRPS:           50,
		RateLimitBurst:         100,
		CriticalStockThreshold: 5,
		AuthSigningKey:         strings.Repeat("k", 32),
		AuthIssuer:             "guardia-test",
	}
}

func newTestRouter(t *testing.T, env string) *echo.Echo {
	t.Helper()
	cfg := testConfig(env)
	m := telemetry.New()
	svcs := newServices(nil, cfg, zerolog.Nop(), m, nil)
	dbHealth := func(c echo.Context) error { return c.JSON(http.StatusOK, map[string]string{"status": "healthy"}) }
	return newRouter(cfg, zerolog.Nop(), svcs, m, dbHealth)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	e := newTestRouter(t, "production")
	for _, path := range []string{"/health", "/health/db", "/metrics"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_RequiresTokenOutsideDev(t *testing.T) {
	e := newTestRouter(t, "production")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/waiting-list", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_SuggestEndToEnd(t *testing.T) {
	e := newTestRouter(t, "development")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage/suggest",
		strings.NewReader(`{"complaint":"Convulsiones","age":"3"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id")
	}
	var got struct {
		Priority      string `json:"priority"`
		VulnerableAge bool   `json:"vulnerable_age"`
	}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Priority != "Alta" || !got.VulnerableAge {
		t.Errorf("unexpected suggestion: %+v", got)
	}
}
