package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	JWTSecret    string
	CORSOrigin   string
	KafkaBrokers string
	LogFile      string
}

func Load() Config {
	// Local overrides live in .env.local; absence is fine.
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "storefront.db" // sqlite file in project root
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("[config] JWT_SECRET must be set (see .env.local)")
	}
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		JWTSecret:    secret,
		CORSOrigin:   origin,
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		LogFile:      os.Getenv("LOG_FILE"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CORS_ORIGIN=%s KAFKA_BROKERS=%s", cfg.Port, cfg.DBDSN, cfg.CORSOrigin, cfg.KafkaBrokers)
	return cfg
}
