package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the simulator.
type Config struct {
	Periods      int
	Seed         int64
	Instruments  int
	Traders      int
	InitialCash  float64
	UniverseFile string
	HumanTrader  string
	Serve        bool
	Port         int
	LogLevel     string
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	periods, err := getInt("PERIODS", 252)
	if err != nil {
		return nil, fmt.Errorf("invalid PERIODS: %w", err)
	}
	if periods <= 0 {
		return nil, fmt.Errorf("invalid PERIODS: must be positive, got %d", periods)
	}

	seed, err := getInt64("SEED", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}

	instruments, err := getInt("INSTRUMENTS", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid INSTRUMENTS: %w", err)
	}

	traders, err := getInt("TRADERS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid TRADERS: %w", err)
	}

	initialCash, err := getFloat("INITIAL_CASH", 10000)
	if err != nil {
		return nil, fmt.Errorf("invalid INITIAL_CASH: %w", err)
	}
	if initialCash < 0 {
		return nil, fmt.Errorf("invalid INITIAL_CASH: must be non-negative, got %v", initialCash)
	}

	serve, err := getBool("SERVE", false)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVE: %w", err)
	}

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	return &Config{
		Periods:      periods,
		Seed:         seed,
		Instruments:  instruments,
		Traders:      traders,
		InitialCash:  initialCash,
		UniverseFile: getStr("UNIVERSE_FILE", ""),
		HumanTrader:  getStr("HUMAN_TRADER", ""),
		Serve:        serve,
		Port:         port,
		LogLevel:     logLevel,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getInt64(key string, defaultVal int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseBool(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
