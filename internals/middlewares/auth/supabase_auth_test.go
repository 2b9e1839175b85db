package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"admisi_backend/internals/configs"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(SupabaseAuthMiddleware())
	app.Get("/api/whoami", func(c *fiber.Ctx) error {
		return c.SendString(CallerEmail(c))
	})
	app.Post("/api/payments/notification", func(c *fiber.Ctx) error {
		return c.SendString("webhook")
	})
	return app
}

func signToken(t *testing.T, secret, email string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"email": email,
		"aud":   "authenticated",
		"exp":   exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	configs.SupabaseJWTSecret = "test-secret"
	app := newTestApp()

	token := signToken(t, "test-secret", "A@X.COM", time.Now().Add(time.Hour))
	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "a@x.com" {
		t.Fatalf("email harus lowercase, got %q", string(body))
	}
}

func TestAuthMiddlewareCookieFallback(t *testing.T) {
	configs.SupabaseJWTSecret = "test-secret"
	app := newTestApp()

	token := signToken(t, "test-secret", "a@x.com", time.Now().Add(time.Hour))
	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 via cookie, got %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	configs.SupabaseJWTSecret = "test-secret"
	app := newTestApp()

	cases := map[string]string{
		"tanpa token":   "",
		"token rusak":   "Bearer bukan.jwt.valid",
		"salah secret":  "Bearer " + signToken(t, "secret-lain", "a@x.com", time.Now().Add(time.Hour)),
		"sudah expired": "Bearer " + signToken(t, "test-secret", "a@x.com", time.Now().Add(-time.Hour)),
	}
	for name, header := range cases {
		req := httptest.NewRequest("GET", "/api/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", name, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.StatusCode)
		}
	}
}

func TestAuthMiddlewareSkipsWebhookPath(t *testing.T) {
	configs.SupabaseJWTSecret = "test-secret"
	app := newTestApp()

	req := httptest.NewRequest("POST", "/api/payments/notification", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("webhook path harus lolos tanpa token, got %d", resp.StatusCode)
	}
}
