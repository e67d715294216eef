package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	Port        int           `mapstructure:"port"`
	MetricsPort int           `mapstructure:"metrics_port"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	CorsOrigins []string      `mapstructure:"cors_origins"`
}

func (config APIConfig) validate() error {

	var missingFields []string

	if config.Port == 0 {
		missingFields = append(missingFields, "port")
	}

	if config.JWTSecret == "" {
		missingFields = append(missingFields, "jwt_secret")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}

	return nil
}

func (config APIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("api.port", "API_PORT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.metrics_port", "METRICS_PORT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.jwt_secret", "JWT_SECRET"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.session_ttl", "SESSION_TTL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
