package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CSRF     CSRFConfig
	MinIO    MinIOConfig

	// Routes maps a resource name to the backend base path that overrides
	// the catalog default.
	Routes map[string]string
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	PublicURL   string
	Institution string
}

type BackendConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RoutesFile string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpireHours int
}

type CSRFConfig struct {
	AuthKey string
	Secure  bool
}

type MinIOConfig struct {
	Enabled  bool
	Endpoint string
	User     string
	Password string
	Bucket   string
	UseSSL   bool
}

func Load() *Config {
	// .env is optional; in production variables come from the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "12"))
	minioEnabled, _ := strconv.ParseBool(getEnv("MINIO_ENABLED", "false"))
	minioSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	csrfSecure, _ := strconv.ParseBool(getEnv("CSRF_SECURE", "false"))
	timeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "15s"))
	if err != nil {
		timeout = 15 * time.Second
	}

	cfg := &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			PublicURL:   getEnv("APP_PUBLIC_URL", "http://localhost:8080"),
			Institution: getEnv("APP_INSTITUTION", "Campus College"),
		},
		Backend: BackendConfig{
			BaseURL:    getEnv("BACKEND_BASE_URL", "http://localhost:5000/api"),
			Token:      getEnv("BACKEND_TOKEN", ""),
			Timeout:    timeout,
			RoutesFile: getEnv("BACKEND_ROUTES_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "console_user"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "campus_console"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret"),
			ExpireHours: jwtExpire,
		},
		CSRF: CSRFConfig{
			AuthKey: getEnv("CSRF_AUTH_KEY", "0123456789abcdef0123456789abcdef"),
			Secure:  csrfSecure,
		},
		MinIO: MinIOConfig{
			Enabled:  minioEnabled,
			Endpoint: getEnv("MINIO_ENDPOINT", "localhost:9000"),
			User:     getEnv("MINIO_USER", "minioadmin"),
			Password: getEnv("MINIO_PASSWORD", "minioadmin123"),
			Bucket:   getEnv("MINIO_BUCKET", "console-exports"),
			UseSSL:   minioSSL,
		},
		Routes: map[string]string{},
	}

	if cfg.Backend.RoutesFile != "" {
		routes, err := LoadRoutesFile(cfg.Backend.RoutesFile)
		if err != nil {
			log.Printf("Ignoring routes file: %v", err)
		} else {
			cfg.Routes = routes
		}
	}

	return cfg
}

// IsProduction reports whether the console runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// RouteFor resolves the backend base path of a resource. ROUTE_<NAME>
// beats the routes file, which beats the fallback.
func (c *Config) RouteFor(name, fallback string) string {
	if v := os.Getenv(routeEnvKey(name)); v != "" {
		return v
	}
	if v, ok := c.Routes[name]; ok && v != "" {
		return v
	}
	return fallback
}

// LoadRoutesFile reads a YAML mapping of resource name to base path:
//
//	routes:
//	  courses: /course
//	  departments: /depts
func LoadRoutesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	var doc struct {
		Routes map[string]string `yaml:"routes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse routes file: %w", err)
	}
	if doc.Routes == nil {
		doc.Routes = map[string]string{}
	}
	return doc.Routes, nil
}

func routeEnvKey(name string) string {
	return "ROUTE_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
