package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName  string `mapstructure:"APP_NAME"`
	HTTPPort string `mapstructure:"HTTP_PORT"`

	MySQLDSN  string `mapstructure:"MYSQL_DSN"`
	RedisAddr string `mapstructure:"REDIS_ADDR"`

	WorkerCount int `mapstructure:"WORKER_COUNT"`
	QueueSize   int `mapstructure:"QUEUE_SIZE"`

	// Accounts receiving the platform fee and allowed to change it.
	TreasuryAccount string `mapstructure:"TREASURY_ACCOUNT"`
	OperatorAccount string `mapstructure:"OPERATOR_ACCOUNT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("APP_NAME", "marketplace-engine")
	viper.SetDefault("HTTP_PORT", ":8080")
	viper.SetDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/marketplace?parseTime=true")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("WORKER_COUNT", 10)
	viper.SetDefault("QUEUE_SIZE", 10000)
	viper.SetDefault("TREASURY_ACCOUNT", "treasury")
	viper.SetDefault("OPERATOR_ACCOUNT", "operator")
	viper.SetDefault("LOG_LEVEL", "info")

	if err = viper.ReadInConfig(); err == nil {
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Info().Msg("No config file found, using environment variables and defaults.")
		err = nil
	} else {
		log.Error().Err(err).Msg("Error reading config file")
		return
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = viper.Unmarshal(&config)
	return
}
