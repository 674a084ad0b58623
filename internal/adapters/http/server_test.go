package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/andrescamacho/portbattle-go/internal/adapters/http"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

const testSecret = "test-secret"

func newServer(t *testing.T, opts api.Options) (*api.Server, *helpers.Harness) {
	t.Helper()
	h := helpers.NewHarness(t)
	if opts.JWTSecret == "" {
		opts.JWTSecret = testSecret
	}
	opts.AccessLog = io.Discard
	return api.NewServer(h.Mediator, h.Catalog, opts), h
}

func token(t *testing.T, id auth.Identity) string {
	t.Helper()
	signed, err := api.SignToken(testSecret, "", id, time.Hour)
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, s *api.Server, method, path, bearer string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func battleBody(h *helpers.Harness, water catalog.WaterType, limit int) map[string]interface{} {
	in := h.BattleInput(water, limit)
	return map[string]interface{}{
		"action":          "create",
		"portName":        in.PortName,
		"meetupTime":      in.MeetupTime.Format(time.RFC3339),
		"battleStartTime": in.BattleStartTime.Format(time.RFC3339),
		"waterType":       in.WaterType,
		"meetupLocation":  in.MeetupLocation,
		"brLimit":         in.BRLimit,
		"nation":          in.Nation,
	}
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, api.Options{})

	status, body := do(t, s, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "portbattle_test_total"}))
	s, _ := newServer(t, api.Options{Registry: registry})

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "portbattle_test_total")
}

func TestCatalogShips(t *testing.T) {
	s, _ := newServer(t, api.Options{})

	t.Run("shallow water filter", func(t *testing.T) {
		status, body := do(t, s, fiber.MethodGet, "/catalog/ships?waterType=ShallowWater", "", nil)
		require.Equal(t, fiber.StatusOK, status)
		ships := body["ships"].([]interface{})
		require.NotEmpty(t, ships)
		for _, raw := range ships {
			rate := raw.(map[string]interface{})["rate"]
			assert.Contains(t, []interface{}{"6th Rate", "7th Rate", "Unrated"}, rate)
		}
	})

	t.Run("unknown rate", func(t *testing.T) {
		status, body := do(t, s, fiber.MethodGet, "/catalog/ships?rate=9th", "", nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
	})
}

func TestIdentity(t *testing.T) {
	s, h := newServer(t, api.Options{})

	t.Run("bad token is rejected", func(t *testing.T) {
		status, body := do(t, s, fiber.MethodPost, "/battles", "not-a-token", battleBody(h, catalog.WaterTypeDeep, 500))
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})

	t.Run("anonymous caller cannot create", func(t *testing.T) {
		status, _ := do(t, s, fiber.MethodPost, "/battles", "", battleBody(h, catalog.WaterTypeDeep, 500))
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		member := token(t, auth.Identity{UserID: "member-1"})
		status, body := do(t, s, fiber.MethodPost, "/battles", member, battleBody(h, catalog.WaterTypeDeep, 500))
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])
	})
}

func TestBattleFlow(t *testing.T) {
	s, h := newServer(t, api.Options{})
	admin := token(t, auth.Identity{UserID: helpers.AdminID})

	status, body := do(t, s, fiber.MethodPost, "/battles", admin, battleBody(h, catalog.WaterTypeDeep, 500))
	require.Equal(t, fiber.StatusOK, status, body)
	battleID := body["battle"].(map[string]interface{})["id"].(string)

	status, body = do(t, s, fiber.MethodPost, "/battles/"+battleID+"/setups", admin, map[string]interface{}{"name": "Main line"})
	require.Equal(t, fiber.StatusOK, status, body)
	setupID := body["setup"].(map[string]interface{})["id"].(string)

	for i, ship := range []string{"Victory", "Christian", "Yacht"} {
		status, body = do(t, s, fiber.MethodPost, "/setups/"+setupID+"/roles", admin,
			map[string]interface{}{"shipName": ship, "roleOrder": i + 1})
		require.Equal(t, fiber.StatusOK, status, body)
	}

	status, body = do(t, s, fiber.MethodPost, "/setups/"+setupID+"/roles", admin,
		map[string]interface{}{"shipName": "Brig", "roleOrder": 4})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "BUDGET_EXCEEDED", body["code"])
	assert.EqualValues(t, 10, body["overage"])
	assert.EqualValues(t, 500, body["limit"])

	status, body = do(t, s, fiber.MethodGet, "/battles/"+battleID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotNil(t, body["battle"])

	status, body = do(t, s, fiber.MethodGet, "/battles/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

func TestValidationErrorsNameFields(t *testing.T) {
	s, _ := newServer(t, api.Options{})
	admin := token(t, auth.Identity{UserID: helpers.AdminID})

	status, body := do(t, s, fiber.MethodPost, "/battles", admin, map[string]interface{}{"action": "create"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Subset(t, body["fields"], []interface{}{"portName", "waterType", "brLimit"})
}

func TestCooldownErrorCarriesReapplyTime(t *testing.T) {
	s, h := newServer(t, api.Options{})
	applicant := token(t, auth.Identity{UserID: "applicant-1"})
	admin := token(t, auth.Identity{UserID: helpers.AdminID})

	status, body := do(t, s, fiber.MethodPost, "/applications", applicant,
		map[string]interface{}{"applicantName": "Jack Aubrey", "answers": map[string]string{"why": "prize money"}})
	require.Equal(t, fiber.StatusOK, status, body)
	appID := body["application"].(map[string]interface{})["id"].(string)

	status, body = do(t, s, fiber.MethodPost, "/applications/review", admin,
		map[string]interface{}{"applicationId": appID, "decision": "deny", "cooldownDays": 10})
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = do(t, s, fiber.MethodPost, "/applications", applicant,
		map[string]interface{}{"applicantName": "Jack Aubrey"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "COOLDOWN_ACTIVE", body["code"])
	assert.Equal(t, h.Clock.Now().AddDate(0, 0, 10).UTC().Format(time.RFC3339), body["canReapplyAt"])

	status, body = do(t, s, fiber.MethodGet, "/applications/cooldowns/applicant-1", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["cooldown"].(map[string]interface{})["eligible"])
}

func TestSubmissionRateLimit(t *testing.T) {
	s, _ := newServer(t, api.Options{SignupRateLimit: 2})

	for i := 0; i < 2; i++ {
		status, _ := do(t, s, fiber.MethodPost, "/applications", "", map[string]interface{}{"applicantName": "x"})
		assert.NotEqual(t, fiber.StatusTooManyRequests, status)
	}
	status, body := do(t, s, fiber.MethodPost, "/applications", "", map[string]interface{}{"applicantName": "x"})
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body["code"])
}
