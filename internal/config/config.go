package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"rivals-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	BrowserModeChrome = "chrome"
	BrowserModeStatic = "static"
)

type Config struct {
	ServerPort     string
	LogLevel       string
	MaxUploadBytes int64

	OCRLanguage string

	BrowserMode string
	Headless    bool
	UserAgent   string

	// remote debugging url, local chrome is launched when empty
	ChromeURL string

	ProfileURLTemplate string
	ConsentSelector    string
	ConsentTimeout     time.Duration
	InitialDelay       time.Duration
	PollAttempts       int
	PollInterval       time.Duration

	// 0 means one session per handle, all at once
	MaxSessions        int
	DebugScreenshotDir string

	EnvFileLoaded bool
}

func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = envErr == nil
	return cfg, nil
}

func LogSummary(cfg *Config, logger zerolog.Logger) {
	if !cfg.EnvFileLoaded {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("browser_mode", cfg.BrowserMode).
		Bool("remote_chrome", cfg.ChromeURL != "").
		Int("poll_attempts", cfg.PollAttempts).
		Dur("poll_interval", cfg.PollInterval).
		Int("max_sessions", cfg.MaxSessions).
		Msg("configuration loaded")
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	var errs []string

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20, &errs)),
		OCRLanguage:        getEnv("OCR_LANGUAGE", "eng"),
		BrowserMode:        strings.ToLower(getEnv("BROWSER_MODE", BrowserModeChrome)),
		ChromeURL:          getEnv("CHROME_URL", ""),
		Headless:           getEnvBool("CHROME_HEADLESS", true, &errs),
		UserAgent:          getEnv("USER_AGENT", constants.DefaultUserAgent),
		ProfileURLTemplate: getEnv("PROFILE_URL_TEMPLATE", constants.ProfileURLTemplate),
		ConsentSelector:    getEnv("CONSENT_SELECTOR", constants.ConsentButtonSelector),
		ConsentTimeout:     getEnvDuration("CONSENT_TIMEOUT", constants.ConsentTimeout, &errs),
		InitialDelay:       getEnvDuration("INITIAL_DELAY", constants.InitialRenderDelay, &errs),
		PollAttempts:       getEnvInt("POLL_ATTEMPTS", constants.ReadinessMaxAttempts, &errs),
		PollInterval:       getEnvDuration("POLL_INTERVAL", constants.ReadinessPollInterval, &errs),
		MaxSessions:        getEnvInt("MAX_SESSIONS", 0, &errs),
		DebugScreenshotDir: getEnv("DEBUG_SCREENSHOT_DIR", ""),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.BrowserMode {
	case BrowserModeChrome, BrowserModeStatic:
	default:
		return fmt.Errorf("BROWSER_MODE must be %q or %q, got %q", BrowserModeChrome, BrowserModeStatic, c.BrowserMode)
	}
	if c.PollAttempts < 1 {
		return fmt.Errorf("POLL_ATTEMPTS must be at least 1")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.InitialDelay < 0 || c.ConsentTimeout < 0 {
		return fmt.Errorf("INITIAL_DELAY and CONSENT_TIMEOUT must not be negative")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("MAX_SESSIONS must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if !strings.Contains(c.ProfileURLTemplate, constants.HandlePlaceholder) {
		return fmt.Errorf("PROFILE_URL_TEMPLATE must contain %s", constants.HandlePlaceholder)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]string) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return fallback
	}
	return d
}
