package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port             string `mapstructure:"PORT"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	PostgresUsername string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	AutoMigrate      bool   `mapstructure:"AUTO_MIGRATE"`
	HTTPAuthUsername string `mapstructure:"HTTP_AUTH_USERNAME"`
	HTTPAuthPassword string `mapstructure:"HTTP_AUTH_PASSWORD"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	ServiceName      string `mapstructure:"SERVICE_NAME"`
	GRPCPort         string `mapstructure:"GRPC_PORT"`
	MetricsPort      string `mapstructure:"METRICS_PORT"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from
// the POSTGRES_* keys.
func (c *AppConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDatabase,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return u.String()
}

// Redacted is safe to log.
func (c AppConfig) Redacted() AppConfig {
	if c.PostgresPassword != "" {
		c.PostgresPassword = "***"
	}
	if c.HTTPAuthPassword != "" {
		c.HTTPAuthPassword = "***"
	}
	if c.DatabaseURL != "" {
		if u, err := url.Parse(c.DatabaseURL); err == nil {
			c.DatabaseURL = u.Redacted()
		}
	}
	if c.RabbitMQURL != "" {
		if u, err := url.Parse(c.RabbitMQURL); err == nil {
			c.RabbitMQURL = u.Redacted()
		}
	}
	return c
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("AUTO_MIGRATE")
	_ = viper.BindEnv("HTTP_AUTH_USERNAME")
	_ = viper.BindEnv("HTTP_AUTH_PASSWORD")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("METRICS_PORT")
	_ = viper.BindEnv("LOG_LEVEL")
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("AUTO_MIGRATE", false)
	viper.SetDefault("SERVICE_NAME", "catalog")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("METRICS_PORT", "9100")
	viper.SetDefault("LOG_LEVEL", "info")
}
