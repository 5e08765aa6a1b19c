package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	RedisAddr string

	JWTSecret string

	// PaymentWindow is how long a pending booking may wait for payment.
	PaymentWindow time.Duration
	// SweepInterval is how often the expiry sweeper runs.
	SweepInterval time.Duration

	CORSOrigins []string
}

func LoadEnv() Env {
	env := Env{
		AppAddr:       getenv("APP_ADDR", ":8080"),
		GinMode:       strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:        getenv("DB_USER", "root"),
		DBPassword:    strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBHost:        getenv("DB_HOST", "127.0.0.1:3306"),
		DBName:        getenv("DB_NAME", "tiketku"),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		JWTSecret:     getenv("JWT_SECRET", "super-secret-key-change-me"),
		PaymentWindow: getduration("PAYMENT_WINDOW", 24*time.Hour),
		SweepInterval: getduration("SWEEP_INTERVAL", time.Minute),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	} else {
		env.CORSOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}

	return env
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
