package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Tablero-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Tablero-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "tablero-test"
)

// bearer genera un Authorization válido para el rol.
func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

// rbacApp ruta GET /protected con JWT y los roles permitidos.
func rbacApp(allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware + RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, 60)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, pkgjwt.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	cases := []struct {
		name    string
		allowed []string
		auth    string
		status  int
		code    string
	}{
		{"admin en ruta admin", []string{pkgjwt.RoleAdmin}, bearer(t, pkgjwt.RoleAdmin), http.StatusOK, ""},
		{"editor en ruta de escritura", []string{pkgjwt.RoleAdmin, pkgjwt.RoleEditor}, bearer(t, pkgjwt.RoleEditor), http.StatusOK, ""},
		{"viewer en ruta de escritura", []string{pkgjwt.RoleAdmin, pkgjwt.RoleEditor}, bearer(t, pkgjwt.RoleViewer), http.StatusForbidden, "FORBIDDEN"},
		{"editor en ruta admin", []string{pkgjwt.RoleAdmin}, bearer(t, pkgjwt.RoleEditor), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{pkgjwt.RoleAdmin}, "Bearer " + noRole, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", []string{pkgjwt.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", []string{pkgjwt.RoleAdmin}, "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", []string{pkgjwt.RoleAdmin}, "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", []string{pkgjwt.RoleAdmin}, "Bearer " + expired, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			resp, err := rbacApp(tc.allowed...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearer(t, pkgjwt.RoleViewer))
	resp, err := rbacApp(pkgjwt.RoleViewer).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, pkgjwt.RoleViewer, body["role"])
}
