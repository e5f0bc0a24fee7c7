package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicebooking/internal/database"
	"servicebooking/internal/domain"
	"servicebooking/internal/middleware"
	"servicebooking/internal/modules/auth"
	"servicebooking/internal/modules/availability"
	"servicebooking/internal/modules/booking"
	"servicebooking/internal/modules/catalog"
	"servicebooking/internal/notification"
	"servicebooking/internal/pkg/clock"
	jwtsvc "servicebooking/internal/pkg/jwt"
	"servicebooking/internal/repository"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	// A second pooled connection to :memory: would see an empty database, so
	// keep the pool at a single connection for the whole suite.
	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to access underlying connection pool")
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	zlog := zap.NewNop()
	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	clk := clock.System()
	generator := availability.Generator{}

	hub := notification.NewHub()
	t.Cleanup(hub.Close)
	notifier := notification.NewNotifier(db, hub, zlog)
	notificationHandler := notification.NewHandler(notifier, hub, zlog)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(providerRepo, serviceRepo, scheduleRepo))
	availabilityHandler := availability.NewHandler(
		availability.NewService(serviceRepo, scheduleRepo, bookingRepo, generator, clk),
	)
	bookingHandler := booking.NewHandler(booking.NewService(
		bookingRepo, serviceRepo, providerRepo, scheduleRepo,
		notifier, generator, clk, zlog,
	))

	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	availabilityHandler.RegisterRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(jwtService))
	{
		bookingHandler.RegisterRoutes(protected)
		catalogHandler.RegisterOwnerRoutes(protected)
		notificationHandler.RegisterRoutes(protected)
	}

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

// register creates a user through the API and returns their token.
func (s *E2ETestSuite) register(t *testing.T, email, role string) string {
	t.Helper()
	w := s.makeRequest(t, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
		"name":     "Test User",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	w = s.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createProvider seeds a provider row for the given owner. Providers are
// provisioned out of band, so tests write the row directly.
func (s *E2ETestSuite) createProvider(t *testing.T, ownerEmail string) int64 {
	t.Helper()
	var owner domain.User
	require.NoError(t, s.db.Table("users").Where("email = ?", ownerEmail).
		Select("id").Scan(&owner.ID).Error)

	providers := repository.NewProviderRepository(s.db)
	p := &domain.Provider{OwnerID: owner.ID, Name: "Test Clinic", City: "Sofia"}
	require.NoError(t, providers.Create(context.Background(), p))
	return p.ID
}

// tomorrowAt returns tomorrow at the given UTC hour, always in the future and
// inside the default 09:00-21:00 hours.
func tomorrowAt(hour int) time.Time {
	now := time.Now().UTC()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestFlow_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("register customer", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
			"name":     "John Doe",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
			"name":     "John Again",
		}, "")
		require.Equal(t, http.StatusConflict, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
	})

	t.Run("login", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["access_token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "client@test.com",
			"password": "WrongPassword1!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("protected route requires token", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/bookings/my", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFlow_CatalogAndAvailability(t *testing.T) {
	suite := setupTestSuite(t)

	ownerToken := suite.register(t, "owner@test.com", "provider_owner")
	providerID := suite.createProvider(t, "owner@test.com")

	var serviceID int64
	t.Run("owner creates service", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/providers/%d/services", providerID), map[string]interface{}{
			"name":             "Consultation",
			"duration_minutes": 60,
			"price":            50.0,
		}, ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		svc := resp.Data["service"].(map[string]interface{})
		serviceID = int64(svc["id"].(float64))
		require.NotZero(t, serviceID)
	})

	t.Run("service without duration rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/providers/%d/services", providerID), map[string]interface{}{
			"name": "No Duration",
		}, ownerToken)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	})

	t.Run("non-owner cannot create service", func(t *testing.T) {
		otherToken := suite.register(t, "other@test.com", "provider_owner")
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/providers/%d/services", providerID), map[string]interface{}{
			"name":             "Rogue Service",
			"duration_minutes": 30,
		}, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner sets schedule", func(t *testing.T) {
		w := suite.makeRequest(t, "PUT", fmt.Sprintf("/api/v1/providers/%d/schedule", providerID), map[string]interface{}{
			"hours": map[string]interface{}{
				"monday":    map[string]interface{}{"segments": []map[string]string{{"start": "09:00", "end": "12:00"}}},
				"tuesday":   map[string]interface{}{"segments": []map[string]string{{"start": "09:00", "end": "18:00"}}},
				"wednesday": map[string]interface{}{"segments": []map[string]string{{"start": "09:00", "end": "18:00"}}},
				"thursday":  map[string]interface{}{"segments": []map[string]string{{"start": "09:00", "end": "18:00"}}},
				"friday":    map[string]interface{}{"segments": []map[string]string{{"start": "09:00", "end": "18:00"}}},
				"saturday":  map[string]interface{}{"segments": []map[string]string{{"start": "10:00", "end": "14:00"}}},
				"sunday":    map[string]interface{}{"segments": []map[string]string{{"start": "10:00", "end": "14:00"}}},
			},
		}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("malformed schedule rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "PUT", fmt.Sprintf("/api/v1/providers/%d/schedule", providerID), map[string]interface{}{
			"hours": map[string]interface{}{
				"monday": map[string]interface{}{"segments": []map[string]string{{"start": "12:00", "end": "09:00"}}},
			},
		}, ownerToken)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	})

	t.Run("public provider listing", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/providers", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
	})

	t.Run("availability for a tuesday", func(t *testing.T) {
		// Find the next Tuesday; hours there are 09:00-18:00.
		day := time.Now().UTC().AddDate(0, 0, 1)
		for day.Weekday() != time.Tuesday {
			day = day.AddDate(0, 0, 1)
		}

		w := suite.makeRequest(t, "GET",
			fmt.Sprintf("/api/v1/services/%d/slots?date=%s", serviceID, day.Format("2006-01-02")), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		slots := resp.Data["slots"].([]interface{})
		require.Len(t, slots, 9)
		assert.Equal(t, "09:00", slots[0])
		assert.Equal(t, "17:00", slots[8])
	})

	t.Run("bad date rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "GET",
			fmt.Sprintf("/api/v1/services/%d/slots?date=not-a-date", serviceID), nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFlow_BookingLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	ownerToken := suite.register(t, "owner@test.com", "provider_owner")
	clientToken := suite.register(t, "client@test.com", "customer")
	providerID := suite.createProvider(t, "owner@test.com")

	var serviceID int64
	w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/providers/%d/services", providerID), map[string]interface{}{
		"name":             "Consultation",
		"duration_minutes": 60,
		"price":            50.0,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	serviceID = int64(parseResponse(t, w).Data["service"].(map[string]interface{})["id"].(float64))

	start := tomorrowAt(10)
	var bookingID int64

	t.Run("customer books a slot", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"service_id": serviceID,
			"start_time": start.Format(time.RFC3339),
			"notes":      "first visit",
		}, clientToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		bookingID = int64(b["id"].(float64))
		assert.Equal(t, "pending", b["status"])
		assert.NotEmpty(t, b["reference"])
	})

	t.Run("same slot cannot be booked twice", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"service_id": serviceID,
			"start_time": start.Format(time.RFC3339),
		}, clientToken)
		require.Equal(t, http.StatusConflict, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)
	})

	t.Run("misaligned start rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"service_id": serviceID,
			"start_time": tomorrowAt(11).Add(30 * time.Minute).Format(time.RFC3339),
		}, clientToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BOOKING_TIME", resp.Error.Code)
	})

	t.Run("booked slot disappears from availability", func(t *testing.T) {
		w := suite.makeRequest(t, "GET",
			fmt.Sprintf("/api/v1/services/%d/slots?date=%s", serviceID, start.Format("2006-01-02")), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		for _, s := range resp.Data["slots"].([]interface{}) {
			assert.NotEqual(t, "10:00", s)
		}
	})

	t.Run("owner confirms", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "confirmed", b["status"])
	})

	t.Run("customer cannot confirm", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, clientToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("my bookings", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/bookings/my", nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		bookings := resp.Data["bookings"].([]interface{})
		require.Len(t, bookings, 1)
		row := bookings[0].(map[string]interface{})
		assert.Equal(t, "Consultation", row["service_name"])
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID),
			map[string]interface{}{}, clientToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("customer cancels", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID),
			map[string]interface{}{"reason": "cannot make it"}, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "cancelled", b["status"])
		assert.Equal(t, "cannot make it", b["cancellation_reason"])
	})

	t.Run("cancelled booking cannot be cancelled again", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID),
			map[string]interface{}{"reason": "again"}, clientToken)
		require.Equal(t, http.StatusConflict, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.Error.Code)
	})

	t.Run("cancelled slot is bookable again", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"service_id": serviceID,
			"start_time": start.Format(time.RFC3339),
		}, clientToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("owner notification recorded", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/notifications", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		notifications := resp.Data["notifications"].([]interface{})
		assert.NotEmpty(t, notifications)
	})
}

func TestFlow_Reschedule(t *testing.T) {
	suite := setupTestSuite(t)

	ownerToken := suite.register(t, "owner@test.com", "provider_owner")
	clientToken := suite.register(t, "client@test.com", "customer")
	providerID := suite.createProvider(t, "owner@test.com")

	w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/providers/%d/services", providerID), map[string]interface{}{
		"name":             "Consultation",
		"duration_minutes": 60,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	serviceID := int64(parseResponse(t, w).Data["service"].(map[string]interface{})["id"].(float64))

	start := tomorrowAt(10)
	w = suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"service_id": serviceID,
		"start_time": start.Format(time.RFC3339),
	}, clientToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bookingID := int64(parseResponse(t, w).Data["booking"].(map[string]interface{})["id"].(float64))

	t.Run("reschedule to a free slot", func(t *testing.T) {
		w := suite.makeRequest(t, "PATCH", fmt.Sprintf("/api/v1/bookings/%d/reschedule", bookingID),
			map[string]interface{}{"start_time": tomorrowAt(14).Format(time.RFC3339)}, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "pending", b["status"])
	})

	t.Run("reschedule back onto own old slot works", func(t *testing.T) {
		w := suite.makeRequest(t, "PATCH", fmt.Sprintf("/api/v1/bookings/%d/reschedule", bookingID),
			map[string]interface{}{"start_time": start.Format(time.RFC3339)}, clientToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("reschedule onto an occupied slot conflicts", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"service_id": serviceID,
			"start_time": tomorrowAt(16).Format(time.RFC3339),
		}, clientToken)
		require.Equal(t, http.StatusCreated, w.Code)

		w = suite.makeRequest(t, "PATCH", fmt.Sprintf("/api/v1/bookings/%d/reschedule", bookingID),
			map[string]interface{}{"start_time": tomorrowAt(16).Format(time.RFC3339)}, clientToken)
		require.Equal(t, http.StatusConflict, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)
	})

	t.Run("another customer cannot reschedule it", func(t *testing.T) {
		otherToken := suite.register(t, "other@test.com", "customer")
		w := suite.makeRequest(t, "PATCH", fmt.Sprintf("/api/v1/bookings/%d/reschedule", bookingID),
			map[string]interface{}{"start_time": tomorrowAt(15).Format(time.RFC3339)}, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
