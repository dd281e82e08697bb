package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the runtime configuration for all binaries, loaded from the
// environment. cmd/* load a .env file first for local development.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
	AppEnv    string `envconfig:"APP_ENV" default:"dev"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// InternalToken guards the lifecycle trigger endpoint.
	InternalToken string `envconfig:"INTERNAL_TOKEN"`

	// SlotMinutes is the fixed width of availability display slots.
	SlotMinutes int `envconfig:"SLOT_MINUTES" default:"60"`

	// HoldDuration is how long a customer-initiated reservation may stay
	// unpaid before the expiry sweep cancels it.
	HoldDuration time.Duration `envconfig:"HOLD_DURATION" default:"15m"`

	// AMQPURL enables the AMQP event sink when set; events fall back to the
	// log sink otherwise.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"rsp.events"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
