package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig describes the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS is one of "mandatory", "opportunistic", "ssl" or "none".
	TLS     string
	Timeout time.Duration
}

// JWTConfig defines issuer/secret pair for admin auth verification.
type JWTConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                     string
	SMTP                     SMTPConfig
	MailFromAddress          string
	MailFromName             string
	MailTo                   string
	AllowedOrigins           []string
	MongoURI                 string
	MongoDatabase            string
	MongoTimeout             time.Duration
	FailedDeliveryCollection string
	AdminJWT                 JWTConfig
	ConsentHashKey           []byte
	ConsentCookieSecure      bool
	PublicDir                string
	SiteURL                  string
	ServerLog                *log.Logger
}

// FailureLogEnabled reports whether failed relay sends are persisted.
func (c Config) FailureLogEnabled() bool {
	return strings.TrimSpace(c.MongoURI) != ""
}

// AdminEnabled reports whether the admin API can be mounted.
func (c Config) AdminEnabled() bool {
	return c.FailureLogEnabled() && len(c.AdminJWT.Secret) > 0
}

// Load reads environment variables and returns a fully populated Config.
// Missing relay settings are fatal: credentials are never compiled in.
func Load() Config {
	logger := log.New(os.Stdout, "[baumsteiger-api] ", log.LstdFlags|log.Lshortfile)

	cfg, missing := fromEnv(logger)
	if len(missing) > 0 {
		logger.Fatalf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}

	cfg.ServerLog.Printf("loaded config: addr=%q smtp=%s:%d tls=%s failureLog=%t admin=%t publicDir=%q",
		cfg.Addr, cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.TLS, cfg.FailureLogEnabled(), cfg.AdminEnabled(), cfg.PublicDir)

	return cfg
}

// fromEnv builds the Config and lists required variables that are unset.
func fromEnv(logger *log.Logger) (Config, []string) {
	var missing []string

	smtpHost := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if smtpHost == "" {
		missing = append(missing, "SMTP_HOST")
	}

	smtpPort := 587
	if raw := strings.TrimSpace(os.Getenv("SMTP_PORT")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			smtpPort = parsed
		} else {
			logger.Printf("invalid SMTP_PORT %q, using %d", raw, smtpPort)
		}
	}

	smtpUser := strings.TrimSpace(os.Getenv("SMTP_USER"))
	mailTo := strings.TrimSpace(os.Getenv("CONTACT_EMAIL_TO"))
	if mailTo == "" {
		missing = append(missing, "CONTACT_EMAIL_TO")
	}

	mailFrom := strings.TrimSpace(os.Getenv("CONTACT_EMAIL_FROM"))
	if mailFrom == "" {
		mailFrom = smtpUser
	}
	if mailFrom == "" {
		missing = append(missing, "CONTACT_EMAIL_FROM")
	}

	var consentKey []byte
	if key := strings.TrimSpace(os.Getenv("CONSENT_COOKIE_HASH_KEY")); key != "" {
		consentKey = []byte(key)
	}

	cfg := Config{
		Addr: envOrDefault("HTTP_ADDR", ":8080"),
		SMTP: SMTPConfig{
			Host:     smtpHost,
			Port:     smtpPort,
			Username: smtpUser,
			Password: os.Getenv("SMTP_PASS"),
			TLS:      strings.ToLower(envOrDefault("SMTP_TLS", "mandatory")),
			Timeout:  durationOrDefault(logger, "SMTP_TIMEOUT", 15*time.Second),
		},
		MailFromAddress:          mailFrom,
		MailFromName:             envOrDefault("CONTACT_EMAIL_FROM_NAME", "Baumsteiger Website"),
		MailTo:                   mailTo,
		AllowedOrigins:           parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		MongoURI:                 strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:            envOrDefault("MONGO_DB", "baumsteiger"),
		MongoTimeout:             durationOrDefault(logger, "MONGO_CONNECT_TIMEOUT", 10*time.Second),
		FailedDeliveryCollection: envOrDefault("FAILED_DELIVERY_COLLECTION", "failed_deliveries"),
		AdminJWT: JWTConfig{
			Issuer:   strings.TrimSpace(os.Getenv("ADMIN_JWT_ISSUER")),
			Audience: strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		},
		ConsentHashKey:      consentKey,
		ConsentCookieSecure: !strings.EqualFold(strings.TrimSpace(os.Getenv("CONSENT_COOKIE_SECURE")), "false"),
		PublicDir:           strings.TrimSpace(os.Getenv("PUBLIC_DIR")),
		SiteURL:             strings.TrimRight(envOrDefault("SITE_URL", "https://www.baumsteiger-allgaeu.de"), "/"),
		ServerLog:           logger,
	}
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		cfg.AdminJWT.Secret = []byte(secret)
	}

	return cfg, missing
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(logger *log.Logger, key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		logger.Printf("invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
