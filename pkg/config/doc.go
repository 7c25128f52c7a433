// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for parsing tagged structs:
//
//	type Config struct {
//	    Language string `env:"FORMX_LANGUAGE" envDefault:"en"`
//	    LogLevel string `env:"FORMX_LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Load parses each configuration type once and caches the result. Parse
// skips the cache and accepts options such as an explicit variable set,
// which is handy in tests. Reload and ResetCache drop cached values after
// the environment changed.
//
// LoadEnv and OverloadEnv read .env files into the process environment;
// LoadEnv keeps variables that are already set, OverloadEnv replaces them.
//
// Failures wrap ErrParsingConfig or ErrLoadingEnvFile. MustLoad and
// MustLoadEnv panic instead of returning an error.
package config
