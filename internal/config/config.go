// Package config loads service configuration from environment variables
// with sensible defaults for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	MySQLDSN        string
	LogMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:        getString("HTTP_ADDR", ":8080"),
		MySQLDSN:        getString("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true"),
		LogMode:         getString("LOG_MODE", "dev"),
		CORSOrigins:     getList("CORS_ORIGINS", "*"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		MaxOpenConns:    getInt("MYSQL_MAX_OPEN_CONNS", 50),
		MaxIdleConns:    getInt("MYSQL_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: getDuration("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

func getString(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func getInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getList(name, def string) []string {
	v := getString(name, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
