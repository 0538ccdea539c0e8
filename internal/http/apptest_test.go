package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

// newTestApp builds the API the way main does, minus metrics and events.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: "test-secret"}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong. Please try again.",
			})
		},
	})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, nil, nil)
	handlers.Register(app, deps)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, _ := io.ReadAll(resp.Body)
	parsed := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// registerUser creates a fresh user through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/register",
		`{"name":"`+name+`","email":"`+email+`","password":"s3cretpw"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", email, resp.StatusCode, body)
	}
	token := extractCookie(resp, "token")
	if token == "" {
		t.Fatal("register did not set token cookie")
	}
	return token
}

// loginAdmin signs in the seeded admin and returns its token.
func loginAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/login",
		`{"email":"admin@store.com","password":"admin123"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: status %d body %v", resp.StatusCode, body)
	}
	token := extractCookie(resp, "token")
	if token == "" {
		t.Fatal("login did not set token cookie")
	}
	return token
}
