package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	SupabaseJWTSecret string

	SFLoginURL      string
	SFClientID      string
	SFClientSecret  string
	SFUsername      string
	SFPassword      string
	SFSecurityToken string
	SFAPIVersion    string

	MidtransServerKey string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	SupabaseJWTSecret = GetEnv("SUPABASE_JWT_SECRET")

	SFLoginURL = strings.TrimRight(GetEnv("SF_LOGIN_URL", "https://login.salesforce.com"), "/")
	SFClientID = GetEnv("SF_CLIENT_ID")
	SFClientSecret = GetEnv("SF_CLIENT_SECRET")
	SFUsername = GetEnv("SF_USERNAME")
	SFPassword = GetEnv("SF_PASSWORD")
	SFSecurityToken = GetEnv("SF_SECURITY_TOKEN") // boleh kosong (IP whitelisted)
	SFAPIVersion = GetEnv("SF_API_VERSION", "v59.0")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")

	if SupabaseJWTSecret == "" {
		log.Println("❌ SUPABASE_JWT_SECRET belum diset!")
	} else {
		log.Println("✅ SUPABASE_JWT_SECRET berhasil dimuat.")
	}

	if SFUsername == "" || SFPassword == "" {
		log.Println("❌ Kredensial Salesforce (SF_USERNAME/SF_PASSWORD) belum lengkap!")
	} else {
		log.Println("✅ Kredensial Salesforce berhasil dimuat.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
