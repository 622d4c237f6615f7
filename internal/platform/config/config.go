package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	Addr            string
	FullnodeURL     string
	ModuleAddress   string
	ModuleName      string
	ResourceAccount string
	RedisURL        string
	PostgresDSN     string
	CacheTTL        time.Duration
	LedgerTimeout   time.Duration
}

// FromEnv builds a Config from environment variables, with defaults suitable
// for testnet development. Redis and Postgres are optional; leaving their
// settings empty disables the snapshot cache and the event archive.
func FromEnv() Config {
	return Config{
		Addr:            envOr("PAYSTREAM_ADDR", ":8080"),
		FullnodeURL:     envOr("PAYSTREAM_FULLNODE_URL", "https://fullnode.testnet.aptoslabs.com"),
		ModuleAddress:   os.Getenv("PAYSTREAM_MODULE_ADDRESS"),
		ModuleName:      envOr("PAYSTREAM_MODULE_NAME", "pay_me_a_river"),
		ResourceAccount: os.Getenv("PAYSTREAM_RESOURCE_ACCOUNT"),
		RedisURL:        os.Getenv("PAYSTREAM_REDIS_URL"),
		PostgresDSN:     os.Getenv("PAYSTREAM_POSTGRES_DSN"),
		CacheTTL:        envDuration("PAYSTREAM_CACHE_TTL", 5*time.Second),
		LedgerTimeout:   envDuration("PAYSTREAM_LEDGER_TIMEOUT", 10*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare numbers are read as seconds.
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
