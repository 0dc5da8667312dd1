package internal

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full application configuration, sourced from the
// environment (optionally seeded from a .env file in development).
type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	DatabaseUrl string
	NatsUrl     string
	BaseURL     string

	Email   EmailConfig
	Company CompanyConfig
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// CompanyConfig is the business identity printed on quotations.
type CompanyConfig struct {
	Name    string
	Phone   string
	Email   string
	Address string
	ABN     string
}

// NewConfig loads configuration from the environment. A .env file is loaded
// first when present; real environment variables always win.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 8080)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("COMPANY_NAME", "Tilbury Interiors")

	cfg := &Config{
		Env:         v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Port:        uint16(v.GetUint32("PORT")),
		DatabaseUrl: v.GetString("DATABASE_URL"),
		NatsUrl:     v.GetString("NATS_URL"),
		BaseURL:     v.GetString("BASE_URL"),
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
			FromName: v.GetString("SMTP_FROM_NAME"),
		},
		Company: CompanyConfig{
			Name:    v.GetString("COMPANY_NAME"),
			Phone:   v.GetString("COMPANY_PHONE"),
			Email:   v.GetString("COMPANY_EMAIL"),
			Address: v.GetString("COMPANY_ADDRESS"),
			ABN:     v.GetString("COMPANY_ABN"),
		},
	}

	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}
