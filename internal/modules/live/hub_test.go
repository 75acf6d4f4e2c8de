package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"imagestyle/internal/domain"
	"imagestyle/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFeedServer(t *testing.T) (*httptest.Server, *Hub, *jwt.Service, prometheus.Gauge) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_live_connections"})
	hub := NewHub(gauge)
	tokens := jwt.New("test-secret", time.Hour)

	r := gin.New()
	NewHandler(hub, tokens, []string{"*"}, zap.NewNop()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv, hub, tokens, gauge
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/appointments?token=" + token
}

func TestServe_RejectsMissingAndBadTokens(t *testing.T) {
	srv, _, _, _ := newFeedServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServe_BroadcastsCreatedAppointments(t *testing.T) {
	srv, hub, tokens, gauge := newFeedServer(t)

	token, err := tokens.GenerateToken(7, "staff")
	require.NoError(t, err)

	first, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer first.Close()
	second, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer second.Close()

	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(2), testutil.ToFloat64(gauge))

	start, _ := domain.ParseLocalTime("2025-03-13T10:00:00")
	hub.AppointmentCreated(context.Background(), domain.Appointment{ID: 42, ServiceName: "Haircut", StartTime: start})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, EventAppointmentCreated, ev.Type)
		require.NotNil(t, ev.Appointment)
		assert.Equal(t, int64(42), ev.Appointment.ID)
		assert.Equal(t, "2025-03-13T10:00:00", ev.Appointment.StartTime.String())
	}

	_ = first.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://salon.local"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://salon.local")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))
}
