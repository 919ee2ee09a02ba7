package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ed-platform/account-service/pkg/util"
)

func newGuardApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message})
		},
	})

	guard := NewGuard(tm, []string{"GET /public"})
	app.Use(guard.Handle)

	app.Get("/public", func(c *fiber.Ctx) error {
		_, ok := IdentityFromContext(c)
		return c.JSON(fiber.Map{"identity": ok})
	})
	app.Get("/private", func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"phone": identity.Phone})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestGuardPublicRouteNoHeader(t *testing.T) {
	app := newGuardApp(NewTokenManager("test-secret"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// no identity is attached on public routes
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["identity"])
}

func TestGuardMissingHeader(t *testing.T) {
	app := newGuardApp(NewTokenManager("test-secret"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized access", decodeBody(t, resp)["message"])
}

func TestGuardMalformedHeader(t *testing.T) {
	app := newGuardApp(NewTokenManager("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized access", decodeBody(t, resp)["message"])
}

func TestGuardExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app := newGuardApp(tm)

	token, _, err := tm.Issue(IdentityClaims{SubjectID: 1, Phone: "0900000000"}, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token expired", decodeBody(t, resp)["message"])
}

func TestGuardForeignSecretToken(t *testing.T) {
	app := newGuardApp(NewTokenManager("test-secret"))

	foreign := NewTokenManager("other-secret")
	token, _, err := foreign.Issue(IdentityClaims{SubjectID: 1, Phone: "0900000000"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", decodeBody(t, resp)["message"])
}

func TestGuardValidTokenAttachesIdentity(t *testing.T) {
	tm := NewTokenManager("test-secret")
	app := newGuardApp(tm)

	token, _, err := tm.Issue(IdentityClaims{SubjectID: 7, Phone: "0900000000"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0900000000", decodeBody(t, resp)["phone"])
}

func TestSoftIdentityNeverRejects(t *testing.T) {
	tm := NewTokenManager("test-secret")

	app := fiber.New()
	app.Use(SoftIdentity(tm))
	app.Get("/page", func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.JSON(fiber.Map{"identity": false})
		}
		return c.JSON(fiber.Map{"identity": true, "phone": identity.Phone})
	})

	// no header
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["identity"])

	// unverifiable token passes through without identity
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["identity"])

	// valid token decorates
	token, _, err := tm.Issue(IdentityClaims{SubjectID: 7, Phone: "0900000000"}, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["identity"])
	assert.Equal(t, "0900000000", body["phone"])
}
