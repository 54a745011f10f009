package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Sweeper SweeperConfig
	Redis   RedisConfig
	AMQP    AMQPConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER" required:"true"`
	Password      string `envconfig:"DB_PASSWORD" required:"true"`
	DBName        string `envconfig:"DB_NAME" required:"true"`
	SSLMode       string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone      string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns      int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	RunMigrations bool   `envconfig:"DB_RUN_MIGRATIONS" default:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,Idempotent-Replayed,Retry-After,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type BookingConfig struct {
	// DefaultTaxRate applies only when the property has no tax rate of its own.
	DefaultTaxRate     string        `envconfig:"BOOKING_DEFAULT_TAX_RATE" default:"7"`
	DefaultOptionHours int           `envconfig:"BOOKING_DEFAULT_OPTION_HOURS" default:"24"`
	TxTimeout          time.Duration `envconfig:"BOOKING_TX_TIMEOUT" default:"10s"`
}

type SweeperConfig struct {
	Enabled     bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"SWEEPER_INTERVAL" default:"1m"`
	BatchSize   int           `envconfig:"SWEEPER_BATCH_SIZE" default:"100"`
	Concurrency int           `envconfig:"SWEEPER_CONCURRENCY" default:"4"`
	LockKey     string        `envconfig:"SWEEPER_LOCK_KEY" default:"booking:sweeper:lock"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type AMQPConfig struct {
	URL      string        `envconfig:"AMQP_URL" default:""`
	Exchange string        `envconfig:"AMQP_EXCHANGE" default:"booking.events"`
	Timeout  time.Duration `envconfig:"AMQP_PUBLISH_TIMEOUT" default:"3s"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings envconfig accepts but the booking core cannot run with.
func (c Config) Validate() error {
	if _, err := decimal.NewFromString(c.Booking.DefaultTaxRate); err != nil {
		return fmt.Errorf("BOOKING_DEFAULT_TAX_RATE %q is not a number: %w", c.Booking.DefaultTaxRate, err)
	}
	if h := c.Booking.DefaultOptionHours; h < 1 || h > 72 {
		return fmt.Errorf("BOOKING_DEFAULT_OPTION_HOURS must be within 1..72, got %d", h)
	}
	if c.Booking.TxTimeout <= 0 {
		return fmt.Errorf("BOOKING_TX_TIMEOUT must be positive")
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return fmt.Errorf("SWEEPER_INTERVAL must be positive")
	}
	if c.Sweeper.BatchSize < 1 || c.Sweeper.Concurrency < 1 {
		return fmt.Errorf("SWEEPER_BATCH_SIZE and SWEEPER_CONCURRENCY must be at least 1")
	}
	if _, err := time.ParseDuration(c.JWT.Duration); err != nil {
		return fmt.Errorf("JWT_DURATION %q: %w", c.JWT.Duration, err)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		CORS: CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			ExposeHeaders: []string{"Location", "Idempotent-Replayed", "Retry-After"},
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Booking: BookingConfig{
			DefaultTaxRate:     "7",
			DefaultOptionHours: 24,
			TxTimeout:          5 * time.Second,
		},
		Sweeper: SweeperConfig{
			Enabled:     false,
			Interval:    time.Minute,
			BatchSize:   100,
			Concurrency: 2,
			LockKey:     "booking:sweeper:lock:test",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
