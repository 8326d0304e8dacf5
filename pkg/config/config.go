// Package config loads runtime configuration from environment variables,
// with an optional YAML profile file for settings too numerous to carry as
// env vars (see profile_loader.go).
package config

import "os"

// Config holds cmd/arquent's runtime configuration.
type Config struct {
	ListenAddr            string
	LogLevel              string
	DatabaseURL           string
	ProofStoreBackend     string // "memory" or "redis"
	RedisAddr             string
	OTLPEndpoint          string
	RuntimeVersion        string
	StateEncryptionSecret string
	TelemetryEnabled      bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	listenAddr := os.Getenv("ARQUENT_LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8787"
	}

	logLevel := os.Getenv("ARQUENT_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbURL := os.Getenv("ARQUENT_DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://arquent@localhost:5432/arquent?sslmode=disable"
	}

	proofBackend := os.Getenv("ARQUENT_PROOF_STORE_BACKEND")
	if proofBackend == "" {
		proofBackend = "memory"
	}

	redisAddr := os.Getenv("ARQUENT_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	otlpEndpoint := os.Getenv("ARQUENT_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	runtimeVersion := os.Getenv("ARQUENT_RUNTIME_VERSION")
	if runtimeVersion == "" {
		runtimeVersion = "0.1.0"
	}

	return &Config{
		ListenAddr:            listenAddr,
		LogLevel:              logLevel,
		DatabaseURL:           dbURL,
		ProofStoreBackend:     proofBackend,
		RedisAddr:             redisAddr,
		OTLPEndpoint:          otlpEndpoint,
		RuntimeVersion:        runtimeVersion,
		StateEncryptionSecret: os.Getenv("ARQUENT_STATE_ENCRYPTION_SECRET"),
		TelemetryEnabled:      os.Getenv("ARQUENT_TELEMETRY_DISABLED") != "true",
	}
}
