package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Gallery   GalleryConfig
	Dialog    DialogConfig
	Cache     CacheConfig
	SMTP      SMTPConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string `validate:"required,numeric"`
	BaseURL            string `validate:"required,url"`
	Environment        string `validate:"oneof=development production test"`
	LogFilePath        string `validate:"required"`
	CorsAllowedOrigins string
}

type UpstreamConfig struct {
	APIURL  string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

type GalleryConfig struct {
	MediaRoot string `validate:"required"`
	// MediaOrigin is where a relative MediaRoot is served from, usually the
	// frontend dev server or CDN.
	MediaOrigin      string        `validate:"required,url"`
	TourRoot         string        `validate:"required"`
	ProbeTimeout     time.Duration `validate:"gt=0"`
	ProbeConcurrency int           `validate:"min=1,max=20"`
}

type DialogConfig struct {
	HandoffDelay   time.Duration `validate:"gte=0"`
	FeaturedMarker string        `validate:"required"`
}

type CacheConfig struct {
	Driver     string        `validate:"oneof=memory redis"`
	RedisURL   string        `validate:"required_if=Driver redis"`
	ContentTTL time.Duration `validate:"gt=0"`
	SessionTTL time.Duration `validate:"gt=0"`
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	NotifyTo   string `validate:"omitempty,email"`
}

// Enabled reports whether briefing notifications can be mailed.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.NotifyTo != ""
}

type EventsConfig struct {
	NatsEnabled bool
	NatsURL     string `validate:"required_if=NatsEnabled true"`
	Stream      string `validate:"required"`
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string `validate:"required"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Upstream: UpstreamConfig{
			APIURL:  getEnv("UPSTREAM_API_URL", "http://127.0.0.1:8000/api"),
			Timeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 8*time.Second),
		},
		Gallery: GalleryConfig{
			MediaRoot:        getEnv("MEDIA_ROOT", "/media"),
			MediaOrigin:      getEnv("MEDIA_ORIGIN", "http://localhost:5173"),
			TourRoot:         getEnv("TOUR_ROOT", "/tour"),
			ProbeTimeout:     getEnvAsDuration("GALLERY_PROBE_TIMEOUT", 5*time.Second),
			ProbeConcurrency: getEnvAsInt("GALLERY_PROBE_CONCURRENCY", 4),
		},
		Dialog: DialogConfig{
			HandoffDelay:   getEnvAsDuration("DIALOG_HANDOFF_DELAY", 150*time.Millisecond),
			FeaturedMarker: getEnv("FEATURED_MARKER", "myrthes"),
		},
		Cache: CacheConfig{
			Driver:     getEnv("CACHE_DRIVER", "memory"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			ContentTTL: getEnvAsDuration("CONTENT_CACHE_TTL", 5*time.Minute),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 10*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Portfolio"),
			NotifyTo:   getEnv("BRIEFING_NOTIFY_EMAIL", ""),
		},
		Events: EventsConfig{
			NatsEnabled: getEnvAsBool("NATS_ENABLED", false),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Stream:      getEnv("NATS_STREAM", "EVENTS"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "portfolio-be"),
		},
	}
}

var validate = validator.New()

// Validate checks every section and reports the offending fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Gallery.MediaFetchRoot(); err != nil {
		return fmt.Errorf("invalid config: Config.Gallery.MediaRoot(resolve): %w", err)
	}
	return nil
}

// MediaFetchRoot resolves MediaRoot against MediaOrigin. Gallery items keep
// the configured MediaRoot for the browser; the server fetches from here.
func (g GalleryConfig) MediaFetchRoot() (string, error) {
	origin, err := url.Parse(strings.TrimSpace(g.MediaOrigin))
	if err != nil {
		return "", fmt.Errorf("media origin: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(g.MediaRoot))
	if err != nil {
		return "", fmt.Errorf("media root: %w", err)
	}
	abs := origin.ResolveReference(ref)
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return "", fmt.Errorf("media root %q does not resolve to an http(s) URL", g.MediaRoot)
	}
	return strings.TrimRight(abs.String(), "/"), nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// AllowedOrigins splits the CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.App.CorsAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("150ms") or plain milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
