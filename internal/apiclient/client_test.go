package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imagestyle/internal/earnings"
	"imagestyle/internal/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "owner@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "password123", r.PostForm.Get("password"))
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	token, err := c.Login(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "tok", c.Token())
}

func TestErrorsBecomeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Invalid or expired token"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Me(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Code)
	assert.True(t, IsUnauthorized(err))
}

func TestErrorsWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListClients(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestCreateAppointment_SendsBookingWithBearer(t *testing.T) {
	var got scheduling.Booking
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":9,"service_name":"Haircut","start_time":"2025-03-13T09:30:00","end_time":"2025-03-13T10:00:00","price":35}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")
	created, err := c.CreateAppointment(context.Background(), scheduling.Booking{
		ClientID: 1, StaffID: 2, ServiceName: "Haircut",
		StartTime: "2025-03-13T09:30:00", EndTime: "2025-03-13T10:00:00", Price: 35,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "35", created.Price.Value().String())
	assert.Equal(t, "Haircut", got.ServiceName)
	assert.Equal(t, 35.0, got.Price)
}

func TestEarnings_AggregatesLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-03-10T00:00:00", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-03-16T23:59:59", r.URL.Query().Get("end"))
		_, _ = w.Write([]byte(`[
			{"id":1,"start_time":"2025-03-12T10:00:00","price":"40.00"},
			{"id":2,"start_time":"2025-03-11T09:00:00","price":null},
			{"id":3,"start_time":"2025-03-12T15:00:00","price":25}
		]`))
	}))
	defer srv.Close()

	week := earnings.ThisWeek(time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC))
	s, err := New(srv.URL).Earnings(context.Background(), week)
	require.NoError(t, err)

	assert.Equal(t, "65", s.Total.String())
	require.Len(t, s.ByDay, 2)
	assert.Equal(t, "2025-03-11", s.ByDay[0].Day)
	assert.Equal(t, "2025-03-12", s.ByDay[1].Day)
}

func TestSlots_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments/slots", r.URL.Path)
		assert.Equal(t, "2025-03-13", r.URL.Query().Get("date"))
		assert.Equal(t, "4", r.URL.Query().Get("staff_id"))
		assert.Equal(t, "45", r.URL.Query().Get("duration"))
		_, _ = w.Write([]byte(`{"date":"2025-03-13","staff_id":4,"duration_minutes":45,"slots":["09:00","09:15"]}`))
	}))
	defer srv.Close()

	s, err := New(srv.URL).Slots(context.Background(), "2025-03-13", 4, 45)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:15"}, s.Slots)
}
