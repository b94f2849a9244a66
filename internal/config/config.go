package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity sources
const (
	IdentitySourceFile     = "file"
	IdentitySourcePostgres = "postgres"
)

// Absence sources
const (
	AbsenceSourceNone     = "none"
	AbsenceSourceSheets   = "sheets"
	AbsenceSourcePostgres = "postgres"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Identity  IdentityConfig
	Absence   AbsenceConfig
	Storage   StorageConfig
	Reconcile ReconcileConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// IdentityConfig selects where the alias table is loaded from
type IdentityConfig struct {
	Source    string
	AliasFile string
}

// AbsenceConfig selects where leave records are fetched from
type AbsenceConfig struct {
	Source            string
	SpreadsheetID     string
	CredentialsFile   string
	SheetsBaseURL     string
	VacationRange     string
	CompensatoryRange string
	FetchTimeout      time.Duration
}

type StorageConfig struct {
	Type      string
	BasePath  string
	Retention time.Duration // zero keeps archived runs forever
}

type ReconcileConfig struct {
	MaxParallel int
	MaxUploadMB int64
}

func Load() (*Config, error) {
	// .env is optional; the environment wins either way
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "4"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "0"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_ledger"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Identity configuration
	config.Identity = IdentityConfig{
		Source:    strings.ToLower(getEnv("IDENTITY_SOURCE", IdentitySourceFile)),
		AliasFile: getEnv("IDENTITY_ALIAS_FILE", "aliases.yaml"),
	}

	// Absence configuration
	fetchTimeout, err := time.ParseDuration(getEnv("ABSENCE_FETCH_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_FETCH_TIMEOUT: %w", err)
	}

	config.Absence = AbsenceConfig{
		Source:            strings.ToLower(getEnv("ABSENCE_SOURCE", AbsenceSourceNone)),
		SpreadsheetID:     getEnv("SHEETS_SPREADSHEET_ID", ""),
		CredentialsFile:   getEnv("SHEETS_CREDENTIALS_FILE", "credentials.json"),
		SheetsBaseURL:     getEnv("SHEETS_BASE_URL", ""),
		VacationRange:     getEnv("SHEETS_VACATION_RANGE", "Vacaciones!A:F"),
		CompensatoryRange: getEnv("SHEETS_COMPENSATORY_RANGE", "Compensados!A:G"),
		FetchTimeout:      fetchTimeout,
	}

	// Storage configuration
	retentionDays, err := strconv.Atoi(getEnv("STORAGE_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_RETENTION_DAYS: %w", err)
	}

	config.Storage = StorageConfig{
		Type:      strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		BasePath:  getEnv("STORAGE_BASE_PATH", "./uploads"),
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
	}

	// Reconcile configuration
	maxParallel, err := strconv.Atoi(getEnv("RECONCILE_MAX_PARALLEL", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_MAX_PARALLEL: %w", err)
	}

	maxUploadMB, err := strconv.ParseInt(getEnv("RECONCILE_MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_MAX_UPLOAD_MB: %w", err)
	}

	config.Reconcile = ReconcileConfig{
		MaxParallel: maxParallel,
		MaxUploadMB: maxUploadMB,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// NeedsDatabase reports whether any source reads from PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.Identity.Source == IdentitySourcePostgres || c.Absence.Source == AbsenceSourcePostgres
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Identity.Source {
	case IdentitySourceFile:
		if c.Identity.AliasFile == "" {
			return fmt.Errorf("IDENTITY_ALIAS_FILE is required")
		}
	case IdentitySourcePostgres:
	default:
		return fmt.Errorf("IDENTITY_SOURCE must be file or postgres, got %q", c.Identity.Source)
	}

	switch c.Absence.Source {
	case AbsenceSourceNone, AbsenceSourcePostgres:
	case AbsenceSourceSheets:
		if c.Absence.SpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required")
		}
		if c.Absence.CredentialsFile == "" {
			return fmt.Errorf("SHEETS_CREDENTIALS_FILE is required")
		}
		if c.Absence.VacationRange == "" && c.Absence.CompensatoryRange == "" {
			return fmt.Errorf("at least one of SHEETS_VACATION_RANGE, SHEETS_COMPENSATORY_RANGE is required")
		}
	default:
		return fmt.Errorf("ABSENCE_SOURCE must be none, sheets or postgres, got %q", c.Absence.Source)
	}

	if c.NeedsDatabase() && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.NeedsDatabase() && (c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns) {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1 and DB_MIN_CONNS between 0 and DB_MAX_CONNS")
	}

	if c.Storage.Type != "local" {
		return fmt.Errorf("STORAGE_TYPE %q is not supported", c.Storage.Type)
	}
	if c.Storage.Retention < 0 {
		return fmt.Errorf("STORAGE_RETENTION_DAYS must not be negative")
	}

	if c.Reconcile.MaxParallel < 1 {
		return fmt.Errorf("RECONCILE_MAX_PARALLEL must be at least 1")
	}
	if c.Reconcile.MaxUploadMB < 1 {
		return fmt.Errorf("RECONCILE_MAX_UPLOAD_MB must be at least 1")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
