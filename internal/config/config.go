package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. The
// support-class set and per-class power factors are configuration,
// not part of the core contract.
type Config struct {
	ListenAddr     string
	DatabaseURL    string
	SupportClasses []string
	ClassFactors   map[string]float64
}

// Load reads the environment, optionally seeded from a local .env
// file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	support := []string{"Cleric", "Mystic"}
	if v := os.Getenv("SUPPORT_CLASSES"); v != "" {
		support = splitCSV(v)
	}

	factors, err := parseFactors(os.Getenv("CLASS_FACTORS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:     addr,
		DatabaseURL:    dbURL,
		SupportClasses: support,
		ClassFactors:   factors,
	}, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseFactors reads "Class:1.1,OtherClass:0.9" pairs.
func parseFactors(v string) (map[string]float64, error) {
	factors := map[string]float64{}
	if v == "" {
		return factors, nil
	}
	for _, part := range splitCSV(v) {
		name, val, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid CLASS_FACTORS entry %q", part)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CLASS_FACTORS value in %q: %w", part, err)
		}
		factors[strings.TrimSpace(name)] = f
	}
	return factors, nil
}
