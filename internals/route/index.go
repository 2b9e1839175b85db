// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	filesRoute "admisi_backend/internals/features/admission/files/route"
	paymentRoute "admisi_backend/internals/features/admission/payments/route"
	progressRoute "admisi_backend/internals/features/admission/progress/route"
	progressService "admisi_backend/internals/features/admission/progress/service"
	authMw "admisi_backend/internals/middlewares/auth"
	"admisi_backend/internals/salesforce"
)

func SetupRoutes(app *fiber.App, store salesforce.Store) {
	svc := progressService.NewProgressService(store)

	// Semua endpoint applicant di bawah /api dengan verifikasi token Supabase.
	// Path webhook pembayaran di-skip di dalam middleware-nya.
	log.Println("[INFO] Setting up /api group...")
	api := app.Group("/api", authMw.SupabaseAuthMiddleware())

	progressRoute.ProgressUserRoutes(api, svc)
	filesRoute.FileUserRoutes(api, store)
	paymentRoute.PaymentRoutes(api, store)
}
