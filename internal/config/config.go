package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PolicyStrict       = "strict"
	PolicyAutoRegister = "auto-register"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var errMissingConfig = errors.New("config section is missing")

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Campaign *CampaignConfig `mapstructure:"campaign"`
	Admin    *AdminConfig    `mapstructure:"admin"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// CampaignConfig holds the allocation policy. The numeric range itself lives
// in the database and is edited by administrators.
type CampaignConfig struct {
	ParticipantPolicy     string        `mapstructure:"participant_policy"`
	MaxConflictRetries    int           `mapstructure:"max_conflict_retries"`
	MaxQuantityPerRequest int           `mapstructure:"max_quantity_per_request"`
	CapacityCheckInterval time.Duration `mapstructure:"capacity_check_interval"`
	CapacityWarnRatio     float64       `mapstructure:"capacity_warn_ratio"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

func (c *CampaignConfig) AutoRegister() bool {
	return c.ParticipantPolicy == PolicyAutoRegister
}

// Load reads the yaml file at path. Every key can be overridden by an
// environment variable named after it, e.g. CAMPAIGN_PARTICIPANT_POLICY.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Warn("config file changed, restart the server to apply it",
			zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	v.WatchConfig()

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.token_ttl", 24*time.Hour)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "numeros-sorte.sqlite")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("campaign.participant_policy", PolicyStrict)
	v.SetDefault("campaign.max_conflict_retries", 3)
	v.SetDefault("campaign.max_quantity_per_request", 1000)
	v.SetDefault("campaign.capacity_check_interval", time.Minute)
	v.SetDefault("campaign.capacity_warn_ratio", 0.9)
}

func (c *AppConfig) Validate() error {
	if c.API == nil || c.Gin == nil || c.Database == nil || c.Campaign == nil || c.Admin == nil {
		return errMissingConfig
	}

	err := validation.ValidateStruct(c.API,
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.JWTSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.API.TokenTTL, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	err = validation.ValidateStruct(c.Database,
		validation.Field(&c.Database.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
	)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	err = validation.ValidateStruct(c.Campaign,
		validation.Field(&c.Campaign.ParticipantPolicy, validation.Required, validation.In(PolicyStrict, PolicyAutoRegister)),
		validation.Field(&c.Campaign.MaxConflictRetries, validation.Min(0)),
		validation.Field(&c.Campaign.MaxQuantityPerRequest, validation.Required, validation.Min(1)),
		validation.Field(&c.Campaign.CapacityCheckInterval, validation.Required),
		validation.Field(&c.Campaign.CapacityWarnRatio, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return fmt.Errorf("campaign: %w", err)
	}

	err = validation.ValidateStruct(c.Admin,
		validation.Field(&c.Admin.Email, validation.Required),
		validation.Field(&c.Admin.Password, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	return nil
}
