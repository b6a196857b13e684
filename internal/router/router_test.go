package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"fintrack/docs"
	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/handler"
)

func setupRouter(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()
	e := echo.New()
	Register(e, cfg,
		handler.NewAuthHandler(nil),
		handler.NewTransactionHandler(nil),
		handler.NewCategoryHandler(nil),
		handler.NewStatsHandler(nil),
		handler.NewSettingsHandler(nil),
	)
	return e
}

func TestSecuredRoutes_BearerToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	e := setupRouter(t, cfg)

	userID := uuid.New()
	token, err := auth.NewJWTService("test-secret").GenerateAccessToken(userID, "jane@example.com")
	assert.NoError(t, err)

	otherToken, err := auth.NewJWTService("other-secret").GenerateAccessToken(userID, "jane@example.com")
	assert.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid bearer token",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing authorization header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token signed with wrong secret",
			authHeader: "Bearer " + otherToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token without bearer scheme",
			authHeader: token,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var body map[string]string
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, userID.String(), body["user_id"])
				assert.Equal(t, "jane@example.com", body["email"])
			}
		})
	}
}

func TestRegister_SwaggerHost(t *testing.T) {
	defaultHost := docs.SwaggerInfo.Host
	defer func() { docs.SwaggerInfo.Host = defaultHost }()

	setupRouter(t, &config.Config{JWTSecret: "test-secret"})
	assert.Equal(t, "localhost:8080", docs.SwaggerInfo.Host)

	setupRouter(t, &config.Config{JWTSecret: "test-secret", SwaggerHost: "api.example.com"})
	assert.Equal(t, "api.example.com", docs.SwaggerInfo.Host)
}

func TestPublicRoutes_NoTokenRequired(t *testing.T) {
	e := setupRouter(t, &config.Config{JWTSecret: "test-secret"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
