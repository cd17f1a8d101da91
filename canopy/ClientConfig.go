package canopy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the client configuration: the tenant realm, the bearer token
// and the base URLs of the four API planes.
//
// All fields are optional. A missing value degrades to an empty string, which
// produces malformed URLs when the corresponding plane is actually used; that
// is a caller configuration error, not a handled failure.
type Config struct {
	Realm string `yaml:"realm"`
	Token string `yaml:"token"`

	// Base URL of the device-data plane. Also hosts the rooms websocket.
	AppEngineURL string `yaml:"appEngineUrl"`
	// Base URL of the flow plane (pipelines, blocks, flow instances)
	FlowURL string `yaml:"flowUrl"`
	// Base URL of the pairing plane (registration, credentials)
	PairingURL string `yaml:"pairingUrl"`
	// Base URL of the interface/trigger management plane
	RealmManagementURL string `yaml:"realmManagementUrl"`

	// Optional CA certificate file for validating the platform's TLS certs
	CACertFile string `yaml:"caCertFile,omitempty"`
}

// LoadConfig reads a client configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	cfg := &Config{}
	if err = yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("LoadConfig: %s: %w", path, err)
	}
	return cfg, nil
}
