package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// SMTPAccount is one SMTP sender configuration. The email channel tries
// accounts in order until one of them accepts the message.
type SMTPAccount struct {
	Host     string
	Port     int
	User     string
	Pass     string
	FromName string
}

// Config holds all application configuration, loaded once at startup.
type Config struct {
	Port string
	Env  string

	// Membership API
	APIBaseURL  string
	APIUsername string
	APIPassword string
	PageSize    int
	MaxPages    int

	// ON_FETCH_ERROR controls what a job does when the membership API
	// cannot be reached: skip (run completes with zero sends), abort
	// (run fails), alert (like abort, logged at high severity).
	OnFetchError string

	// Email
	SMTPAccounts []SMTPAccount
	AssetsDir    string

	// Twilio
	TwilioAccountSID          string
	TwilioAuthToken           string
	TwilioMessagingServiceSID string
	TwilioPhoneNumber         string

	// Dispatch
	MaxAttempts int
	BaseBackoff time.Duration

	// Run log
	LogsDir string

	// Schedules (cron expressions)
	BirthdayEmailCron string
	BirthdaySMSCron   string
	EasterCron        string

	// Optional bcrypt hash guarding the run-job/test-email routes.
	AdminTokenHash string
}

// Load reads configuration from the environment. Membership API
// credentials are required; everything else has a sensible default.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("APP_ENV", "dev"),

		APIBaseURL:  getEnv("API_BASE_URL", "https://api.thelordsbrethrenchurch.org/api"),
		APIUsername: os.Getenv("API_USERNAME"),
		APIPassword: os.Getenv("API_PASSWORD"),
		PageSize:    getEnvInt("API_PAGE_SIZE", 100),
		MaxPages:    getEnvInt("API_MAX_PAGES", 500),

		OnFetchError: getEnv("ON_FETCH_ERROR", "skip"),

		AssetsDir: getEnv("ASSETS_DIR", "assets"),

		TwilioAccountSID:          os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:           os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioMessagingServiceSID: os.Getenv("TWILIO_MESSAGING_SERVICE_SID"),
		TwilioPhoneNumber:         os.Getenv("TWILIO_PHONE_NUMBER"),

		MaxAttempts: getEnvInt("DISPATCH_MAX_ATTEMPTS", 4),
		BaseBackoff: time.Duration(getEnvInt("DISPATCH_BASE_BACKOFF_MS", 1000)) * time.Millisecond,

		LogsDir: getEnv("LOGS_DIR", "logs"),

		BirthdayEmailCron: getEnv("BIRTHDAY_EMAIL_CRON", "0 9 * * *"),
		BirthdaySMSCron:   getEnv("BIRTHDAY_SMS_CRON", "0 9 * * *"),
		EasterCron:        getEnv("EASTER_CRON", ""),

		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	}

	// Fail fast on missing credentials; there is no baked-in fallback.
	if cfg.APIUsername == "" || cfg.APIPassword == "" {
		return nil, errors.New("missing required env: API_USERNAME / API_PASSWORD")
	}

	switch cfg.OnFetchError {
	case "skip", "abort", "alert":
	default:
		log.Printf("Invalid ON_FETCH_ERROR %q, defaulting to skip", cfg.OnFetchError)
		cfg.OnFetchError = "skip"
	}

	cfg.SMTPAccounts = loadSMTPAccounts()
	if len(cfg.SMTPAccounts) == 0 {
		log.Println("No SMTP accounts configured; email jobs will fail until EMAIL_HOST is set")
	}

	return cfg, nil
}

// loadSMTPAccounts reads the primary account from EMAIL_* and any
// fallbacks from FALLBACK_EMAIL_* / FALLBACK2_EMAIL_*.
func loadSMTPAccounts() []SMTPAccount {
	var accounts []SMTPAccount
	for _, prefix := range []string{"EMAIL", "FALLBACK_EMAIL", "FALLBACK2_EMAIL"} {
		host := os.Getenv(prefix + "_HOST")
		if host == "" {
			continue
		}
		accounts = append(accounts, SMTPAccount{
			Host:     host,
			Port:     getEnvInt(prefix+"_PORT", 587),
			User:     os.Getenv(prefix + "_USER"),
			Pass:     os.Getenv(prefix + "_PASS"),
			FromName: getEnv(prefix+"_FROM_NAME", "The Lord's Brethren Church"),
		})
	}
	return accounts
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("Invalid %s=%q, defaulting to %d", key, val, fallback)
		return fallback
	}
	return n
}
