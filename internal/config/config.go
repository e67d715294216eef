package config

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
)

type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	DB     DBConfig     `mapstructure:"db"`
	API    APIConfig    `mapstructure:"api"`
	Store  StoreConfig  `mapstructure:"store"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, _ := os.LookupEnv("MODE"); value == "test" {
		configFile = "../../configs/config.yaml"
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables() error {
	var errs []error

	db, api, store, logger := DBConfig{}, APIConfig{}, StoreConfig{}, LoggerConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := api.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if err := store.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("StoreConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.API.validate(); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if err := config.Store.validate(); err != nil {
		errs = append(errs, fmt.Errorf("StoreConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
