package config

import (
	"log"

	"github.com/spf13/viper"
)

type GenerationConfig struct {
	HorizonMonths         int `mapstructure:"horizon_months"`
	MaxOccurrences        int `mapstructure:"max_occurrences"`
	ExtendThresholdMonths int `mapstructure:"extend_threshold_months"`
}

type SchedulerConfig struct {
	ExtendCron string `mapstructure:"extend_cron"`
	SLACron    string `mapstructure:"sla_cron"`
}

type Config struct {
	DatabaseURL string           `mapstructure:"database_url"`
	LogLevel    string           `mapstructure:"log_level"`
	Generation  GenerationConfig `mapstructure:"generation"`
	Scheduler   SchedulerConfig  `mapstructure:"scheduler"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}

	// Fallback defaults
	if config.DatabaseURL == "" {
		log.Fatal("database_url must be set in the config file")
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Generation.HorizonMonths == 0 {
		config.Generation.HorizonMonths = 12
	}
	if config.Generation.MaxOccurrences == 0 {
		config.Generation.MaxOccurrences = 100
	}
	if config.Generation.ExtendThresholdMonths == 0 {
		config.Generation.ExtendThresholdMonths = 3
	}
	if config.Scheduler.ExtendCron == "" {
		config.Scheduler.ExtendCron = "@daily"
	}
	if config.Scheduler.SLACron == "" {
		config.Scheduler.SLACron = "@every 30m"
	}

	return &config
}
