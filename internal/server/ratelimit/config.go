package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Paths of the endpoints that call the model
const (
	ExtractPath  = "/api/extract"
	GeneratePath = "/api/generate-logos"
	RunPath      = "/api/run/stream"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from the process environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom loads rate limiting configuration using getenv.
//
//	RATE_LIMIT_ENABLED             default true
//	RATE_LIMIT_DEFAULT_LIMIT       default 1000 per RATE_LIMIT_DEFAULT_WINDOW (1m)
//	RATE_LIMIT_CLEANUP_INTERVAL    default 5m
//	RATE_LIMIT_EXTRACT_PER_HOUR    default 30
//	RATE_LIMIT_GENERATE_PER_HOUR   default 20
//	RATE_LIMIT_WHITELIST, RATE_LIMIT_BLACKLIST  comma-separated IPs
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)

	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	endpoints := DefaultEndpointConfigs()
	for i := range endpoints {
		switch endpoints[i].Path {
		case ExtractPath:
			endpoints[i].Limit = env.integer("RATE_LIMIT_EXTRACT_PER_HOUR", endpoints[i].Limit)
		case GeneratePath, RunPath:
			endpoints[i].Limit = env.integer("RATE_LIMIT_GENERATE_PER_HOUR", endpoints[i].Limit)
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpoints,
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Every request to the model-backed endpoints costs an upstream call.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: ExtractPath, Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: GeneratePath, Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: RunPath, Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		{Path: "/api/transcripts", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/logos/package", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/api/profile/edit", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// envReader reads typed values, falling back to a default when a variable
// is unset or malformed.
type envReader func(string) string

func (env envReader) integer(key string, defaultValue int) int {
	if v, err := strconv.Atoi(env(key)); err == nil {
		return v
	}
	return defaultValue
}

func (env envReader) boolean(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(env(key)); err == nil {
		return v
	}
	return defaultValue
}

func (env envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(env(key)); err == nil {
		return v
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
