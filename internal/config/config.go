package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is built once at startup and
// passed into the gateways and handlers; business logic never reads the
// environment directly.
type Config struct {
	Env  string `mapstructure:"ENV"`
	Port string `mapstructure:"PORT"`

	// Google Calendar service account.
	GoogleSAEmail string `mapstructure:"GOOGLE_SA_EMAIL"`
	GoogleSAKey   string `mapstructure:"GOOGLE_SA_KEY"`
	CalendarID    string `mapstructure:"CALENDAR_ID"`
	TimeZone      string `mapstructure:"TZ"`

	// GoHighLevel messaging.
	GHLAPIKey     string `mapstructure:"GHL_API_KEY"`
	GHLLocationID string `mapstructure:"GHL_LOCATION_ID"`

	// Optional cell to notify on escalateCall.
	EscalationSMS string `mapstructure:"ESCALATION_SMS"`

	// Must match the X-Api-Key header set in the Vapi tool definitions.
	VapiSecretToken string `mapstructure:"VAPI_SECRET_TOKEN"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("TZ", "America/New_York")
	v.SetDefault("GOOGLE_SA_EMAIL", "")
	v.SetDefault("GOOGLE_SA_KEY", "")
	v.SetDefault("CALENDAR_ID", "")
	v.SetDefault("GHL_API_KEY", "")
	v.SetDefault("GHL_LOCATION_ID", "")
	v.SetDefault("ESCALATION_SMS", "")
	v.SetDefault("VAPI_SECRET_TOKEN", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Deployment dashboards tend to store the PEM with escaped newlines.
	cfg.GoogleSAKey = strings.ReplaceAll(cfg.GoogleSAKey, `\n`, "\n")

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
