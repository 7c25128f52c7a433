package formx

import "github.com/dmitrymomot/formx/pkg/config"

// Config is the environment configuration of a Kit.
type Config struct {
	Env          string `env:"FORMX_ENV" envDefault:"development"`          // Env selects logger defaults: development, staging or production.
	Service      string `env:"FORMX_SERVICE" envDefault:"formx"`            // Service is attached to every log record.
	LogLevel     string `env:"FORMX_LOG_LEVEL"`                             // LogLevel overrides the level implied by Env: debug, info, warn or error.
	LogFormat    string `env:"FORMX_LOG_FORMAT"`                            // LogFormat overrides the format implied by Env: json or text.
	Language     string `env:"FORMX_LANGUAGE" envDefault:"en"`              // Language is the BCP 47 tag used to pick message templates.
	DefaultLabel string `env:"FORMX_DEFAULT_LABEL" envDefault:"This field"` // DefaultLabel names controls without a label in messages.
	MessagesFile string `env:"FORMX_MESSAGES_FILE"`                         // MessagesFile is an optional YAML bundle overriding default templates.
	SkipDefaults bool   `env:"FORMX_SKIP_DEFAULTS" envDefault:"false"`      // SkipDefaults leaves the registry without default resolvers.
}

// LoadConfig reads Config from the environment, loading a .env file first if present.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
