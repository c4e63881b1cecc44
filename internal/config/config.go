package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/subcycle/subcycle/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Tax        TaxConfig        `validate:"required"`
	Scheduler  SchedulerConfig  `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
	AutoMigrate            bool
}

// TaxConfig is the static country to VAT-percentage table injected into the
// tax service at construction. Keys are matched after upper-casing and
// trimming; both ISO codes and full country names are accepted. Unknown or
// blank countries fall back to DefaultRate.
type TaxConfig struct {
	DefaultRate     float64            `validate:"gte=0"`
	FallbackCountry string             `validate:"required"`
	Rates           map[string]float64 `validate:"required"`
}

// SchedulerConfig holds the cron expressions for the four daily lifecycle
// jobs. The staggered defaults are a correctness requirement, not a load
// spreading trick: suspensions must observe the delinquent statuses set
// earlier in the same cycle, and expirations the suspended ones.
type SchedulerConfig struct {
	Enabled       bool
	Renewals      string `validate:"required"`
	Delinquencies string `validate:"required"`
	Suspensions   string `validate:"required"`
	Expirations   string `validate:"required"`
}

func NewConfig() (*Configuration, error) {
	// Best effort .env load for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/subcycle")

	v.SetEnvPrefix("SUBCYCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if len(config.Tax.Rates) == 0 {
		config.Tax.Rates = DefaultTaxRates()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "subcycle")
	v.SetDefault("postgres.dbname", "subcycle")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopenconns", 10)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.connmaxlifetimeminutes", 30)

	v.SetDefault("tax.defaultrate", 21.00)
	v.SetDefault("tax.fallbackcountry", "ES")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.renewals", "0 0 * * *")
	v.SetDefault("scheduler.delinquencies", "0 1 * * *")
	v.SetDefault("scheduler.suspensions", "0 2 * * *")
	v.SetDefault("scheduler.expirations", "0 3 * * *")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests. It carries the full built-in tax table.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Postgres: PostgresConfig{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "subcycle",
			DBName:                 "subcycle",
			SSLMode:                "disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
		},
		Tax: TaxConfig{
			DefaultRate:     21.00,
			FallbackCountry: "ES",
			Rates:           DefaultTaxRates(),
		},
		Scheduler: SchedulerConfig{
			Enabled:       false,
			Renewals:      "0 0 * * *",
			Delinquencies: "0 1 * * *",
			Suspensions:   "0 2 * * *",
			Expirations:   "0 3 * * *",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
