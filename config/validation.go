package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that everything the server cannot run without is
// actually set. JWT and database credentials are always required; Redis
// credentials only in production, where the rate limiter is not optional.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET (or the jwt_secret secret) is required")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errs = append(errs, "DB_HOST, DB_PORT and DB_NAME are required")
	}
	if cfg.DBUser == "" || cfg.DBPassword == "" {
		errs = append(errs, "database credentials are required")
	}
	if IsProduction() {
		if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
			errs = append(errs, "REDIS_URL or REDIS_HOST/REDIS_PORT is required in production")
		}
		if cfg.RedisPassword == "" {
			errs = append(errs, "redis_password secret is required in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
