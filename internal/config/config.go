// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Nothing here is mandatory: every value has a
// default that works against a local MySQL.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	ShutdownTimeout time.Duration // how long in-flight requests get on SIGTERM
	DB              DBConfig
}

// DBConfig describes how to reach the database and how to size the pool.
type DBConfig struct {
	Driver          string // mysql | postgres | sqlite
	User            string
	Pass            string // empty allowed
	Host            string
	Port            string
	Name            string
	SSLMode         string // postgres only
	Path            string // sqlite only
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LoadDotEnv applies a .env file from the working directory when present.
// Variables already set in the process environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}
}

// Load reads configuration values from the environment and returns a Config.
func Load() Config {
	LoadDotEnv()
	return Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            envStr("APP_PORT", "8080"),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
		DB:              loadDBConfig(),
	}
}

func loadDBConfig() DBConfig {
	driver := envStr("DB_DRIVER", "mysql")
	defPort := "3306"
	if driver == "postgres" {
		defPort = "5432"
	}
	return DBConfig{
		Driver:          driver,
		User:            envStr("DB_USER", "root"),
		Pass:            os.Getenv("DB_PASS"),
		Host:            envStr("DB_HOST", "localhost"),
		Port:            envStr("DB_PORT", defPort),
		Name:            envStr("DB_NAME", "app"),
		SSLMode:         envStr("DB_SSLMODE", "disable"),
		Path:            envStr("DB_PATH", "data/app.db"),
		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// The env helpers below return def when the variable is unset or does not
// parse; a typo in one setting should not stop the service from booting.

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}
