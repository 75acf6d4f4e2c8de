package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"imagestyle/internal/config"
	"imagestyle/internal/database"
	"imagestyle/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:srv_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		OpenHour:           9,
		CloseHour:          12,
		StepMinutes:        30,
		CORSAllowedOrigins: []string{"*"},
		LoginRatePerMinute: 600,
		LoginBurst:         100,
		EarningsCacheTTL:   time.Minute,
	}
	s := New(Deps{Config: cfg, DB: db, Log: zap.NewNop()})
	t.Cleanup(s.Hub.Close)
	return s
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func login(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tok := decode[map[string]string](t, w)
	assert.Equal(t, "bearer", tok["token_type"])
	return tok["access_token"]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/clients", "/appointments", "/earnings", "/auth/me", "/catalog"} {
		w := doJSON(t, s, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "owner@example.com", "name": "Owner", "role": "owner", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	owner := decode[map[string]any](t, w)

	w = doJSON(t, s, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "OWNER@example.com", "name": "Again", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMAIL_EXISTS")

	token := login(t, s, "owner@example.com", "password123")

	w = doJSON(t, s, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", decode[map[string]any](t, w)["role"])

	w = doJSON(t, s, http.MethodPost, "/clients", token, map[string]string{
		"first_name": "Ana", "last_name": "Lopez", "phone": "555-0101",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	client := decode[map[string]any](t, w)

	w = doJSON(t, s, http.MethodGet, "/clients/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	booking := map[string]any{
		"client_id":    client["id"],
		"staff_id":     owner["id"],
		"service_name": "Haircut",
		"start_time":   "2025-03-13T09:30:00",
		"end_time":     "2025-03-13T10:00:00",
		"notes":        "Specialty: Hair | Price: 35 | Duration: 0h 30m",
		"price":        35,
	}
	w = doJSON(t, s, http.MethodPost, "/appointments", token, booking)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "2025-03-13T09:30:00", created["start_time"])
	assert.Equal(t, 35.0, created["price"], "price must be a JSON number")

	w = doJSON(t, s, http.MethodPost, "/appointments/", token, booking)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "BOOKING_CONFLICT")

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/appointments/slots?date=2025-03-13&staff_id=%v&duration=30", owner["id"]), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slots := decode[map[string]any](t, w)
	assert.Equal(t, []any{"09:00", "10:00", "10:30", "11:00", "11:30"}, slots["slots"])

	w = doJSON(t, s, http.MethodGet, "/appointments?start=2025-03-13T00:00:00&end=2025-03-13T23:59:59", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]map[string]any](t, w)
	require.Len(t, listed, 1)
	price, ok := listed[0]["price"].(float64)
	require.True(t, ok, "price must be a JSON number, got %T", listed[0]["price"])
	assert.Equal(t, 35.0, price)

	w = doJSON(t, s, http.MethodGet, "/earnings?start=2025-03-10T00:00:00&end=2025-03-16T23:59:59", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary struct {
		Total json.Number `json:"total"`
		ByDay []struct {
			Day      string        `json:"day"`
			DayTotal json.Number   `json:"dayTotal"`
			Items    []interface{} `json:"items"`
		} `json:"byDay"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "35", summary.Total.String())
	require.Len(t, summary.ByDay, 1)
	assert.Equal(t, "2025-03-13", summary.ByDay[0].Day)

	w = doJSON(t, s, http.MethodGet, "/earnings?preset=decade", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "imagestyle_appointments_created_total 1")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "staff@example.com", "name": "Staff", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "staff@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
