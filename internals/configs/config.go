package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system ENV")
	} else {
		log.Println("✅ .env file loaded")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

// =======================
// WHATSAPP (Meta Cloud API)
// =======================

// WhatsAppConfig is the explicit configuration the notification gateway is
// constructed with. Missing credentials mean "skip sending", never an error.
type WhatsAppConfig struct {
	Enabled            bool
	APIVersion         string
	PhoneNumberID      string
	AccessToken        string
	TemplateName       string
	TemplateLanguage   string
	DefaultCountryCode string
}

func LoadWhatsAppConfig() WhatsAppConfig {
	return WhatsAppConfig{
		Enabled:            GetEnvBool("WHATSAPP_ENABLED", false),
		APIVersion:         GetEnv("WHATSAPP_API_VERSION", "v19.0"),
		PhoneNumberID:      GetEnv("WHATSAPP_PHONE_NUMBER_ID"),
		AccessToken:        GetEnv("WHATSAPP_ACCESS_TOKEN"),
		TemplateName:       GetEnv("WHATSAPP_TEMPLATE_NAME"),
		TemplateLanguage:   GetEnv("WHATSAPP_TEMPLATE_LANGUAGE", "pt_BR"),
		DefaultCountryCode: GetEnv("WHATSAPP_DEFAULT_COUNTRY_CODE", "55"),
	}
}
