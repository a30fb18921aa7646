package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Addr            string
	TickEvery       time.Duration
	Seed            int64
	StartingBalance float64
	BetResolveTicks int

	RefDataEnabled bool
	RefDataBaseURL string
	RefDataAPIKey  string
	RefDataMaxAge  time.Duration
	RefDataEvery   time.Duration
}

// LoadServerFromEnv reads the server configuration. Every knob has a
// default; an empty environment yields a playable market with the
// reference fetcher running against synthesized fallback data.
func LoadServerFromEnv() ServerConfig {
	addr := strings.TrimSpace(os.Getenv("PORT"))
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("NOWMARKET_ADDR", ":8080")
	}

	return ServerConfig{
		Addr:            addr,
		TickEvery:       envDurationDefault("NOWMARKET_TICK_EVERY", time.Second),
		Seed:            envInt64Default("NOWMARKET_SEED", 0),
		StartingBalance: envFloatDefault("NOWMARKET_STARTING_BALANCE", 10_000),
		BetResolveTicks: int(envInt64Default("NOWMARKET_BET_RESOLVE_TICKS", 30)),

		RefDataEnabled: envBoolDefault("NOWMARKET_REFDATA_ENABLED", true),
		RefDataBaseURL: envDefault("NOWMARKET_REFDATA_BASE_URL", ""),
		RefDataAPIKey:  envDefault("ALPHAVANTAGE_API_KEY", "demo"),
		RefDataMaxAge:  envDurationDefault("NOWMARKET_REFDATA_MAX_AGE", time.Hour),
		RefDataEvery:   envDurationDefault("NOWMARKET_REFDATA_REFRESH_EVERY", 15*time.Minute),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
