package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 21.00, cfg.Tax.DefaultRate)
	assert.Equal(t, "ES", cfg.Tax.FallbackCountry)
	assert.NotEmpty(t, cfg.Tax.Rates)

	// Country codes and full names resolve to the same rate.
	assert.Equal(t, cfg.Tax.Rates["DE"], cfg.Tax.Rates["GERMANY"])
	assert.Equal(t, 20.00, cfg.Tax.Rates["GB"])
	assert.Equal(t, 20.00, cfg.Tax.Rates["UK"])

	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 0 * * *", cfg.Scheduler.Renewals)
	assert.Equal(t, "0 1 * * *", cfg.Scheduler.Delinquencies)
	assert.Equal(t, "0 2 * * *", cfg.Scheduler.Suspensions)
	assert.Equal(t, "0 3 * * *", cfg.Scheduler.Expirations)
}

func TestPostgresConfigGetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "billing",
		Password: "secret",
		DBName:   "subcycle",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"user=billing password=secret dbname=subcycle host=db.internal port=5433 sslmode=require",
		cfg.GetDSN(),
	)
}
