package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodspot-finder/internal/config"
	httpDelivery "github.com/foodspot-finder/internal/delivery/http"
	"github.com/foodspot-finder/internal/delivery/http/handler"
	"github.com/foodspot-finder/internal/domain"
	"github.com/foodspot-finder/internal/loginguard"
	"github.com/foodspot-finder/internal/pkg/password"
	"github.com/foodspot-finder/internal/pkg/token"
	"github.com/foodspot-finder/internal/repository/memory"
	"github.com/foodspot-finder/internal/usecase"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total   int     `json:"total"`
		RadiusM float64 `json:"radius_m"`
	} `json:"meta"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

type failingCheck struct{}

func (failingCheck) Health(context.Context) error { return errors.New("down") }

func newTestServer(t *testing.T, checks map[string]handler.HealthChecker) *fiber.App {
	t.Helper()
	logger := zap.NewNop()

	spotRepo := memory.NewSpotRepository()
	userRepo := memory.NewUserRepository()

	spotUC := usecase.NewSpotUseCase(spotRepo, nil, logger, 5000, time.Minute)
	_, err := spotUC.Import(context.Background(), []domain.Spot{
		{ID: "near", Name: "Iya Basira", MealType: "lunch", Location: domain.NewGeoPoint(3.38, 6.5352)},
		{ID: "cafe", Name: "Bean Co", MealType: "breakfast", Location: domain.NewGeoPoint(3.3793, 6.5245)},
		{ID: "far", Name: "Far Grill", MealType: "dinner", Location: domain.NewGeoPoint(3.3792, 6.5963)},
	})
	require.NoError(t, err)

	guard := loginguard.New(loginguard.DefaultConfig())
	authUC := usecase.NewAuthUseCase(
		userRepo,
		guard,
		password.NewHasher(bcrypt.MinCost),
		token.NewIssuer("handler-test-secret", time.Hour),
		logger,
	)
	userUC := usecase.NewUserUseCase(userRepo, logger, 5000)

	if checks == nil {
		checks = map[string]handler.HealthChecker{}
	}

	cfg := &config.Config{}
	server := httpDelivery.NewServer(
		cfg,
		logger,
		handler.NewSpotHandler(spotUC, logger),
		handler.NewUserHandler(authUC, userUC, logger),
		handler.NewHealthHandler(checks, logger),
		authUC,
	)
	return server.App()
}

func do(t *testing.T, app *fiber.App, method, target string, body interface{}, bearer string) (int, envelope, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env, raw
}

func signUp(t *testing.T, app *fiber.App, email string) (token, id string) {
	t.Helper()
	status, _, raw := do(t, app, fiber.MethodPost, "/api/user/auth",
		map[string]string{"email": email, "password": "secret1"}, "")
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var auth struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &auth))
	return auth.Token, auth.User.ID
}

func TestSpotNearby(t *testing.T) {
	app := newTestServer(t, nil)

	t.Run("returns spots within 5 km nearest first", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodGet, "/api/spot/nearby?lng=3.3792&lat=6.5244", nil, "")
		require.Equal(t, fiber.StatusOK, status)

		var spots []struct {
			ID       string          `json:"id"`
			Distance float64         `json:"distance"`
			Location json.RawMessage `json:"location"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &spots))
		require.Len(t, spots, 2)
		assert.Equal(t, "cafe", spots[0].ID)
		assert.Equal(t, "near", spots[1].ID)
		assert.InDelta(t, 1200, spots[1].Distance, 10)
		assert.JSONEq(t, `{"type":"Point","coordinates":[3.38,6.5352]}`, string(spots[1].Location))

		require.NotNil(t, env.Meta)
		assert.Equal(t, 2, env.Meta.Total)
		assert.Equal(t, 5000.0, env.Meta.RadiusM)
	})

	t.Run("meal type filter", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodGet, "/api/spot/nearby?lng=3.3792&lat=6.5244&mealType=Lunch,dinner", nil, "")
		require.Equal(t, fiber.StatusOK, status)

		var spots []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &spots))
		require.Len(t, spots, 1)
		assert.Equal(t, "near", spots[0].ID)
	})

	t.Run("nothing nearby is an empty list", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodGet, "/api/spot/nearby?lng=100&lat=10", nil, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	errorCases := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing lat", "/api/spot/nearby?lng=3.37", fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing both", "/api/spot/nearby", fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"not a number", "/api/spot/nearby?lng=abc&lat=6.5", fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"out of range", "/api/spot/nearby?lng=3.37&lat=91", fiber.StatusBadRequest, "INVALID_QUERY"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			status, env, _ := do(t, app, fiber.MethodGet, tc.target, nil, "")
			assert.Equal(t, tc.status, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestUserAuth(t *testing.T) {
	app := newTestServer(t, nil)

	t.Run("sign up then log in", func(t *testing.T) {
		status, _, raw := do(t, app, fiber.MethodPost, "/api/user/auth",
			map[string]string{"email": "ada@x.com", "password": "secret1"}, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(raw), `"message":"Sign up successful"`)
		assert.NotContains(t, string(raw), "secret1")

		status, _, raw = do(t, app, fiber.MethodPost, "/api/user/auth",
			map[string]string{"email": "ada@x.com", "password": "secret1"}, "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(raw), `"message":"Login successful"`)
	})

	t.Run("two failures block the email", func(t *testing.T) {
		signUp(t, app, "grace@x.com")

		for i := 0; i < 2; i++ {
			status, env, _ := do(t, app, fiber.MethodPost, "/api/user/auth",
				map[string]string{"email": "grace@x.com", "password": "wrong-pass"}, "")
			require.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
		}

		status, env, _ := do(t, app, fiber.MethodPost, "/api/user/auth",
			map[string]string{"email": "grace@x.com", "password": "secret1"}, "")
		require.Equal(t, fiber.StatusTooManyRequests, status)
		assert.Equal(t, "RATE_LIMITED", env.Error.Code)
		assert.Equal(t, "Too many failed login attempts. Try again later.", env.Error.Message)
	})

	t.Run("validation", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodPost, "/api/user/auth",
			map[string]string{"email": "nope", "password": "123"}, "")
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "email")
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/api/user/auth", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestUserProfileRoutes(t *testing.T) {
	app := newTestServer(t, nil)
	tok, id := signUp(t, app, "me@x.com")
	otherTok, otherID := signUp(t, app, "other@x.com")

	t.Run("routes require a token", func(t *testing.T) {
		for _, target := range []string{"/api/user/currentUser", "/api/user/nearby?lng=0&lat=0"} {
			status, env, _ := do(t, app, fiber.MethodGet, target, nil, "")
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		}

		status, _, _ := do(t, app, fiber.MethodGet, "/api/user/currentUser", nil, "not-a-jwt")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("current user has no hash", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodGet, "/api/user/currentUser", nil, tok)
		require.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(env.Data), id)
		assert.NotContains(t, string(env.Data), "assword")
	})

	t.Run("update then find by location", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodPut, "/api/user/update",
			map[string]interface{}{"username": "other", "lng": 3.38, "lat": 6.52}, otherTok)
		require.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(env.Data), `"username":"other"`)

		status, env, _ = do(t, app, fiber.MethodGet, "/api/user/nearby?lng=3.3801&lat=6.5201&radius=100", nil, tok)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, 1, env.Meta.Total)
		assert.Contains(t, string(env.Data), otherID)

		status, env, _ = do(t, app, fiber.MethodGet, "/api/user/nearby?lng=-50&lat=-20&radius=100", nil, tok)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, 0, env.Meta.Total)
	})

	t.Run("update needs a username", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodPut, "/api/user/update",
			map[string]interface{}{"lng": 3.38, "lat": 6.52}, tok)
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("bad radius", func(t *testing.T) {
		status, env, _ := do(t, app, fiber.MethodGet, "/api/user/nearby?lng=0&lat=0&radius=wide", nil, tok)
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestHealthAndFallbacks(t *testing.T) {
	t.Run("healthy without backends", func(t *testing.T) {
		app := newTestServer(t, nil)
		status, _, raw := do(t, app, fiber.MethodGet, "/api/health", nil, "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(raw), `"status":"healthy"`)
	})

	t.Run("degraded when a backend is down", func(t *testing.T) {
		app := newTestServer(t, map[string]handler.HealthChecker{"redis": failingCheck{}})
		status, _, raw := do(t, app, fiber.MethodGet, "/api/health", nil, "")
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Contains(t, string(raw), `"redis":"unavailable"`)
	})

	t.Run("unknown route uses the error envelope", func(t *testing.T) {
		app := newTestServer(t, nil)
		status, env, _ := do(t, app, fiber.MethodGet, "/api/nowhere", nil, "")
		assert.Equal(t, fiber.StatusNotFound, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
