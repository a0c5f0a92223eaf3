// pkg/config/database.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// SQLConfig holds connection parameters for a SQL dataset source. Driver is
// either "postgres" or "snowflake".
type SQLConfig struct {
	Driver string

	// Postgres fields
	Host     string
	Port     int
	SSLMode  string
	Database string
	User     string
	Password string

	// Snowflake fields
	Account       string
	Warehouse     string
	Schema        string
	Role          string
	Authenticator gosnowflake.AuthType

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Query timeout
	QueryTimeout time.Duration
}

// LoadPostgresConfig loads PostgreSQL connection parameters from
// environment variables
func LoadPostgresConfig() (*SQLConfig, error) {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return nil, errors.New("POSTGRES_HOST environment variable is required")
	}

	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		return nil, errors.New("POSTGRES_USER environment variable is required")
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		return nil, errors.New("POSTGRES_PASSWORD environment variable is required")
	}

	database := os.Getenv("POSTGRES_DATABASE")
	if database == "" {
		return nil, errors.New("POSTGRES_DATABASE environment variable is required")
	}

	port, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	return &SQLConfig{
		Driver:          "postgres",
		Host:            host,
		Port:            port,
		User:            user,
		Password:        password,
		Database:        database,
		SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(getEnvAsInt("POSTGRES_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
		QueryTimeout:    time.Duration(getEnvAsInt("POSTGRES_QUERY_TIMEOUT_SEC", 300)) * time.Second,
	}, nil
}

// LoadSnowflakeConfig loads Snowflake connection parameters from
// environment variables
func LoadSnowflakeConfig() (*SQLConfig, error) {
	user := os.Getenv("SNOWFLAKE_USER")
	if user == "" {
		return nil, errors.New("SNOWFLAKE_USER environment variable is required")
	}

	password := os.Getenv("SNOWFLAKE_PASSWORD")
	if password == "" {
		return nil, errors.New("SNOWFLAKE_PASSWORD environment variable is required")
	}

	account := os.Getenv("SNOWFLAKE_ACCOUNT")
	if account == "" {
		return nil, errors.New("SNOWFLAKE_ACCOUNT environment variable is required")
	}

	database := os.Getenv("SNOWFLAKE_DATABASE")
	if database == "" {
		return nil, errors.New("SNOWFLAKE_DATABASE environment variable is required")
	}

	// Convert authenticator string to proper type
	var authenticator gosnowflake.AuthType
	switch getEnv("SNOWFLAKE_AUTHENTICATOR", "snowflake") {
	case "snowflake":
		authenticator = gosnowflake.AuthTypeSnowflake
	case "externalbrowser":
		authenticator = gosnowflake.AuthTypeExternalBrowser
	case "okta":
		authenticator = gosnowflake.AuthTypeOkta
	default:
		authenticator = gosnowflake.AuthTypeSnowflake
	}

	return &SQLConfig{
		Driver:          "snowflake",
		User:            user,
		Password:        password,
		Account:         account,
		Database:        database,
		Warehouse:       getEnv("SNOWFLAKE_WAREHOUSE", ""),
		Schema:          getEnv("SNOWFLAKE_SCHEMA", "PUBLIC"),
		Role:            getEnv("SNOWFLAKE_ROLE", ""),
		Authenticator:   authenticator,
		MaxOpenConns:    getEnvAsInt("SNOWFLAKE_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("SNOWFLAKE_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(getEnvAsInt("SNOWFLAKE_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
		QueryTimeout:    time.Duration(getEnvAsInt("SNOWFLAKE_QUERY_TIMEOUT_SEC", 300)) * time.Second,
	}, nil
}

// DSN builds the driver connection string
func (c *SQLConfig) DSN() (string, error) {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
		), nil
	case "snowflake":
		dsn, err := gosnowflake.DSN(&gosnowflake.Config{
			Account:       c.Account,
			User:          c.User,
			Password:      c.Password,
			Database:      c.Database,
			Schema:        c.Schema,
			Warehouse:     c.Warehouse,
			Role:          c.Role,
			Authenticator: c.Authenticator,
		})
		if err != nil {
			return "", fmt.Errorf("failed to build Snowflake DSN: %w", err)
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported SQL driver %q", c.Driver)
	}
}
