// internals/middlewares/auth/supabase_auth.go
package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"admisi_backend/internals/configs"
)

// Path webhook publik yang di-skip auth (notifikasi Midtrans)
var skipPaths = map[string]struct{}{
	"/api/payments/notification": {},
}

const LocalsUserEmail = "user_email"

// SupabaseAuthMiddleware memverifikasi access token Supabase (HS256) dan
// menyimpan email pemanggil di Locals. Token diambil dari header Authorization
// atau cookie sb-access-token.
func SupabaseAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Skip path tertentu (webhook dsb.)
		if _, ok := skipPaths[c.Path()]; ok {
			return c.Next()
		}

		// 2) Ambil token (Authorization atau cookie)
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			return unauthorized(c)
		}

		secret := configs.SupabaseJWTSecret
		if secret == "" {
			log.Println("[ERROR] SUPABASE_JWT_SECRET kosong")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok": false, "error": "server_misconfigured",
			})
		}

		// 3) Parse & verifikasi JWT. Supabase memakai aud "authenticated",
		// cukup exp yang divalidasi di sini.
		claims := jwt.MapClaims{}
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithoutClaimsValidation(),
		)
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token Supabase:", err)
			return unauthorized(c)
		}
		if err := claims.Valid(); err != nil {
			return unauthorized(c)
		}

		// 4) Ambil email dari klaim
		email, _ := claims["email"].(string)
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			return unauthorized(c)
		}

		c.Locals(LocalsUserEmail, email)
		return c.Next()
	}
}

// CallerEmail mengambil email hasil verifikasi middleware (kosong bila tidak ada).
func CallerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalsUserEmail).(string)
	return email
}

func extractAccessToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[len("bearer "):])
	}
	return strings.TrimSpace(c.Cookies("sb-access-token"))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"ok":    false,
		"error": "unauthorized",
	})
}
