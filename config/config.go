package config

import (
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// Config carries every environment-tunable setting. Defaults are production
// values for the restaurant; override per deployment via env / .env file.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	StaffAPIKey string

	// Fees added on top of the cart subtotal, in minor currency units.
	PickupFee   decimal.Decimal
	DeliveryFee decimal.Decimal

	// Customer self-cancellation is allowed only this long after creation,
	// and only while the order is still pending.
	CancelWindow time.Duration

	// Preparation estimate: base kitchen time plus an increment per item
	// beyond the first. Delivery adds a fixed transit allowance.
	PrepBase         time.Duration
	PrepPerExtraItem time.Duration
	DeliveryTransit  time.Duration
}

// Load reads settings from the environment. Missing keys fall back to
// defaults; malformed values are fatal since a half-configured fee schedule
// must never reach customers.
func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret"),
		StaffAPIKey: os.Getenv("STAFF_API_KEY"),

		PickupFee:   getenvDecimal("PICKUP_FEE", "1000"),
		DeliveryFee: getenvDecimal("DELIVERY_FEE", "4000"),

		CancelWindow: getenvDuration("CANCEL_WINDOW", 5*time.Minute),

		PrepBase:         getenvDuration("PREP_BASE", 20*time.Minute),
		PrepPerExtraItem: getenvDuration("PREP_PER_EXTRA_ITEM", 2*time.Minute),
		DeliveryTransit:  getenvDuration("DELIVERY_TRANSIT", 30*time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDecimal(key, fallback string) decimal.Decimal {
	raw := getenv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("❌ Invalid %s=%q: %v", key, raw, err)
	}
	return d
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("❌ Invalid %s=%q: %v", key, raw, err)
	}
	return d
}
