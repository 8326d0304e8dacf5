package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arquent-run/arquent/pkg/execcontext"
)

// Profile is an optional YAML file overlaying the proof-store backend, the
// Redis address and the OTLP endpoint. Env vars in Config always win:
// ApplyProfile sets one of those fields only when its env var was not set.
// Policy is parsed from the file, but ApplyProfile does not apply it.
type Profile struct {
	ProofStoreBackend string                       `yaml:"proof_store_backend,omitempty"`
	RedisAddr         string                       `yaml:"redis_addr,omitempty"`
	OTLPEndpoint      string                       `yaml:"otlp_endpoint,omitempty"`
	Policy            execcontext.PolicySettings   `yaml:"policy,omitempty"`
}

// LoadProfile reads and parses a YAML profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", path, err)
	}
	return &p, nil
}

// ApplyProfile overlays a Profile onto cfg, only where cfg still holds
// Load's defaults (i.e. the corresponding env var was unset). This keeps
// "env var wins" an actual invariant rather than a documentation claim.
func ApplyProfile(cfg *Config, profile *Profile, explicitlySet map[string]bool) {
	if profile == nil {
		return
	}
	if profile.ProofStoreBackend != "" && !explicitlySet["ARQUENT_PROOF_STORE_BACKEND"] {
		cfg.ProofStoreBackend = profile.ProofStoreBackend
	}
	if profile.RedisAddr != "" && !explicitlySet["ARQUENT_REDIS_ADDR"] {
		cfg.RedisAddr = profile.RedisAddr
	}
	if profile.OTLPEndpoint != "" && !explicitlySet["ARQUENT_OTLP_ENDPOINT"] {
		cfg.OTLPEndpoint = profile.OTLPEndpoint
	}
}
