package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr string
	//Auth / Security
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
	ScopedTTL  time.Duration
	ProfileTTL time.Duration
	BcryptCost int

	// One-time token flows (activation / OTP reset / deletion)
	ActivationTokenTTL time.Duration
	ResetCodeTTL       time.Duration
	DeletionTokenTTL   time.Duration

	// Public base URL of this backend; email links are built on it.
	BaseURL string
	// Deep-link scheme of the mobile app and the web fallback for the
	// redirect trampoline pages.
	AppScheme   string
	FallbackURL string

	// Backing spreadsheet
	CredentialsFile string
	SpreadsheetID   string
	LoginSheet      string

	// Chat transcript (optional; empty id disables logging)
	ChatSpreadsheetID string
	ChatSheet         string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Dialogflow CX
	DialogflowProjectID string
	DialogflowLocation  string
	DialogflowAgentID   string
	DialogflowLanguage  string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "manuales-backend")

	// The backing spreadsheet is the sole datastore; fail fast without it.
	cfg.CredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "credentials.json")
	cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("missing required env var: SPREADSHEET_ID")
	}
	cfg.LoginSheet = getEnv("LOGIN_SHEET", "Login")

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing required env var: BASE_URL")
	}
	cfg.AppScheme = getEnv("APP_SCHEME", "manualesapp")
	cfg.FallbackURL = getEnv("FALLBACK_URL", "https://universitas.legal/")

	// Chat transcript is optional: the assistant works without it.
	cfg.ChatSpreadsheetID = os.Getenv("CHAT_SPREADSHEET_ID")
	cfg.ChatSheet = getEnv("CHAT_SHEET_NAME", "ChatLog")

	// SMTP is required: activation emails gate every registration.
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("missing required env var: SMTP_HOST")
	}
	port, err := getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTPPort = port
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		return nil, fmt.Errorf("missing required env vars: SMTP_USERNAME / SMTP_PASSWORD")
	}
	cfg.FromEmail = getEnv("FROM_EMAIL", cfg.SMTPUsername)
	cfg.FromName = getEnv("FROM_NAME", "Universitas")

	// Dialogflow is optional; the /api/ai surface is disabled without it.
	cfg.DialogflowProjectID = os.Getenv("DIALOGFLOW_PROJECT_ID")
	cfg.DialogflowLocation = getEnv("DIALOGFLOW_LOCATION", "global")
	cfg.DialogflowAgentID = os.Getenv("DIALOGFLOW_AGENT_ID")
	cfg.DialogflowLanguage = getEnv("DIALOGFLOW_LANGUAGE", "es")

	cost, err := getInt("BCRYPT_COST", 0)
	if err != nil {
		return nil, err
	}
	cfg.BcryptCost = cost

	ttl, err := getDuration("SESSION_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = ttl

	stl, err := getDuration("SCOPED_TOKEN_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ScopedTTL = stl

	ptl, err := getDuration("PROFILE_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ProfileTTL = ptl

	atl, err := getDuration("ACTIVATION_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.ActivationTokenTTL = atl

	rct, err := getDuration("RESET_CODE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ResetCodeTTL = rct

	dtl, err := getDuration("DELETION_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.DeletionTokenTTL = dtl

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

// AssistantEnabled reports whether the Dialogflow surface is configured.
func (c *Config) AssistantEnabled() bool {
	return c.DialogflowProjectID != "" && c.DialogflowAgentID != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}
