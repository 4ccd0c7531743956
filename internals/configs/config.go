package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

const (
	DefaultRegyBoxBaseURL = "https://www.regibox.pt/app/app_nova/php"
	DefaultPort           = "3000"
)

// RegyBoxCredentials are read once at start and never change afterwards.
type RegyBoxCredentials struct {
	BoxID    string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type AppConfig struct {
	Port string

	RegyBox         RegyBoxCredentials
	RegyBoxBaseURL  string
	RegyBoxLang     string
	UpstreamTimeout time.Duration

	ScheduleAPIBaseURL string
	ScheduleTimezone   string
	ScheduleLocale     string
	ScheduleProgram    string

	ContentDir         string
	CORSOrigins        []string
	RateLimitPerMinute int
	TrustProxy         bool
	TrustedProxies     []string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env file not found, using system environment")
		} else {
			log.Println("[INFO] .env file loaded")
		}
	} else {
		log.Println("[INFO] Running in Railway, using system environment")
	}
}

// Load reads the whole application configuration from the environment.
// Missing booking credentials are only reported here; the upstream client
// refuses to log in without them.
func Load() AppConfig {
	port := GetEnv("PORT", DefaultPort)

	cfg := AppConfig{
		Port: port,
		RegyBox: RegyBoxCredentials{
			BoxID:    strings.TrimSpace(GetEnv("REGYBOX_BOX_ID")),
			Email:    strings.TrimSpace(GetEnv("REGYBOX_EMAIL")),
			Password: GetEnv("REGYBOX_PASSWORD"),
		},
		RegyBoxBaseURL:  strings.TrimRight(GetEnv("REGYBOX_BASE_URL", DefaultRegyBoxBaseURL), "/"),
		RegyBoxLang:     GetEnv("REGYBOX_LANG", "pt"),
		UpstreamTimeout: GetEnvDuration("REGYBOX_TIMEOUT", 10*time.Second),

		ScheduleAPIBaseURL: strings.TrimRight(GetEnv("SCHEDULE_API_BASE_URL"), "/"),
		ScheduleTimezone:   GetEnv("SCHEDULE_TIMEZONE", "Europe/Lisbon"),
		ScheduleLocale:     GetEnv("SCHEDULE_LOCALE", "pt"),
		ScheduleProgram:    GetEnv("SCHEDULE_PROGRAM", "Treino"),

		ContentDir:         GetEnv("CONTENT_DIR", "content"),
		CORSOrigins:        GetEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RateLimitPerMinute: GetEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		TrustProxy:         GetEnvBool("TRUST_PROXY", false),
		TrustedProxies:     GetEnvList("TRUSTED_PROXIES", nil),
	}

	if cfg.TrustProxy && len(cfg.TrustedProxies) == 0 {
		log.Println("[WARN] TRUST_PROXY set without TRUSTED_PROXIES, forwarded headers are ignored")
		cfg.TrustProxy = false
	}

	if missing := cfg.RegyBox.Missing(); len(missing) > 0 {
		log.Printf("[WARN] RegyBox credentials not configured: %s", strings.Join(missing, ", "))
	} else {
		log.Println("[INFO] RegyBox credentials loaded")
	}

	return cfg
}

var credentialEnv = map[string]string{
	"BoxID":    "REGYBOX_BOX_ID",
	"Email":    "REGYBOX_EMAIL",
	"Password": "REGYBOX_PASSWORD",
}

// Missing lists the environment variables behind the empty credential fields.
func (c RegyBoxCredentials) Missing() []string {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		if name, ok := credentialEnv[fe.Field()]; ok {
			out = append(out, name)
		} else {
			out = append(out, fe.Field())
		}
	}
	return out
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetEnvList splits a comma separated variable, dropping blanks.
func GetEnvList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
