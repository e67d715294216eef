package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type OwnershipPolicy string

const (
	// OwnershipSilent absorbs update/delete calls on jobs the caller does
	// not own as no-ops. OwnershipError rejects them explicitly.
	OwnershipSilent OwnershipPolicy = "silent"
	OwnershipError  OwnershipPolicy = "error"
)

type StoreConfig struct {
	WriteLatency      time.Duration   `mapstructure:"write_latency"`
	DeleteLatency     time.Duration   `mapstructure:"delete_latency"`
	MessageLatency    time.Duration   `mapstructure:"message_latency"`
	PersistEmpty      bool            `mapstructure:"persist_empty"`
	OwnershipMismatch OwnershipPolicy `mapstructure:"ownership_mismatch"`
	MessagesPerMinute int             `mapstructure:"messages_per_minute"`
	JanitorSpec       string          `mapstructure:"janitor_spec"`
}

func (config StoreConfig) validate() error {

	if config.OwnershipMismatch != "" &&
		config.OwnershipMismatch != OwnershipSilent &&
		config.OwnershipMismatch != OwnershipError {
		return fmt.Errorf("ownership_mismatch must be %q or %q", OwnershipSilent, OwnershipError)
	}

	if config.MessagesPerMinute < 0 {
		return fmt.Errorf("messages_per_minute must not be negative")
	}

	return nil
}

func (config StoreConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("store.write_latency", "STORE_WRITE_LATENCY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("store.persist_empty", "STORE_PERSIST_EMPTY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("store.ownership_mismatch", "STORE_OWNERSHIP_MISMATCH"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
