// Package config loads process configuration from the environment,
// mirroring ouroboros/config/settings.py's load_dotenv() +
// os.environ.get(...) fallback chain (without the Azure Key Vault lookup,
// which is outside this module's scope).
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings is the full set of environment-driven configuration the core
// process needs (spec.md §5's resource lifetime / §6's configuration
// table).
type Settings struct {
	AMQPConnStr       string `envconfig:"AMQP_SSL_CONN_STR"`
	MongoConnStr      string `envconfig:"MONGODB_CONN_STR" default:"mongodb://localhost:27017/"`
	MongoDatabase     string `envconfig:"MONGODB_DATABASE" default:"Orbit"`
	AzureBlobConnStr  string `envconfig:"AZURE_BLOB_CONN"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads a .env file if present (ignoring its absence, matching
// load_dotenv()'s default behavior), then binds Settings from the process
// environment.
func Load() (Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	return s, nil
}
