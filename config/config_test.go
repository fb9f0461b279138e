package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() *Config {
	return &Config{
		ServerPort: "8080",
		ServerHost: "0.0.0.0",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "foodgram",
		DBPassword: "secret",
		DBName:     "foodgram",
		DBSSLMode:  "disable",
		JWTSecret:  "jwt-secret",
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(devConfig()))

	missingJWT := devConfig()
	missingJWT.JWTSecret = ""
	err := ValidateConfig(missingJWT)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	missingDB := devConfig()
	missingDB.DBPassword = ""
	err = ValidateConfig(missingDB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestDSN(t *testing.T) {
	cfg := devConfig()
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=foodgram")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "staging")
	assert.Equal(t, Development, GetEnvironment())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "data/ingredients.csv", cfg.IngredientsCSV)
}
