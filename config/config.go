package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every knob the service reads from the environment.
type Config struct {
	MongoConnString string `envconfig:"MONGODB_CONNSTRING" required:"true"`
	DBName          string `envconfig:"DB_NAME" default:"eventhub"`
	ListenAddr      string `envconfig:"LISTEN_ADDR" default:":80"`
	ImageStoreURL   string `envconfig:"IMAGE_STORE_URL" default:""`
	ImageStoreKey   string `envconfig:"IMAGE_STORE_KEY" default:""`
}

// Load reads the configuration from the environment once, at startup.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("EVENTHUB", &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot read configuration from environment: %w", err)
	}
	return cfg, nil
}
