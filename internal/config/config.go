package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultMigrationsDir    = "internal/db/migrations"
	defaultJWTTTL           = 7 * 24 * time.Hour
	defaultKafkaTopic       = "luffy.events"
	defaultDeliveryWorkers  = 4
	defaultDeliveryBatch    = 50
	defaultDeliveryInterval = 5 * time.Second
	defaultAuthRateLimit    = 0.5
	defaultAuthRateBurst    = 5
	minJWTSecretLen         = 16
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTTTL       time.Duration `env:"JWT_TTL"`
	CookieSecure bool          `env:"COOKIE_SECURE"`

	// Необязательные интеграции: пустое значение отключает соответствующий компонент.
	RedisAddr        string `env:"REDIS_ADDR"`
	KafkaBrokers     string `env:"KAFKA_BROKERS"`
	KafkaTopic       string `env:"KAFKA_TOPIC"`
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	DeliveryWorkers  uint          `env:"DELIVERY_WORKERS"`
	DeliveryBatch    uint          `env:"DELIVERY_BATCH"`
	DeliveryInterval time.Duration `env:"DELIVERY_INTERVAL"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST"`
}

// LoadConfig собирает конфиг из флагов командной строки и переменных окружения. Переменные окружения
// имеют приоритет над флагами. Если в рабочей директории есть .env, он подгружается в окружение
// (уже выставленные переменные не перезаписываются).
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadConfig(args []string) (*Config, error) {
	if dotenvErr := loadDotenv(); dotenvErr != nil {
		return nil, dotenvErr
	}

	var conf Config
	if flagsErr := loadFlags(&conf, args); flagsErr != nil {
		return nil, flagsErr
	}

	// env.Parse не трогает поля, для которых переменная не задана, поэтому значения флагов остаются
	// там, где окружение молчит.
	if envParseErr := env.Parse(&conf); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// LoadEnv читает конфиг только из окружения и .env, подставляя значения по умолчанию. Используется
// утилитами, у которых свой разбор аргументов.
func LoadEnv() (*Config, error) {
	if dotenvErr := loadDotenv(); dotenvErr != nil {
		return nil, dotenvErr
	}
	conf := Config{
		RunAddress:       defaultRunAddress,
		MigrationsDir:    defaultMigrationsDir,
		JWTTTL:           defaultJWTTTL,
		KafkaTopic:       defaultKafkaTopic,
		DeliveryWorkers:  defaultDeliveryWorkers,
		DeliveryBatch:    defaultDeliveryBatch,
		DeliveryInterval: defaultDeliveryInterval,
		AuthRateLimit:    defaultAuthRateLimit,
		AuthRateBurst:    defaultAuthRateBurst,
	}
	if envParseErr := env.Parse(&conf); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}
	return &conf, nil
}

func loadDotenv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %s", err.Error())
	}
	return nil
}

func loadFlags(flagConfig *Config, args []string) error {
	flags := flag.NewFlagSet("luffy", flag.ContinueOnError)

	flags.StringVar(&flagConfig.RunAddress, "a", defaultRunAddress, "Run address in format host:port")
	flags.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flags.StringVar(&flagConfig.MigrationsDir, "m", defaultMigrationsDir, "Database migrations directory")
	flags.StringVar(&flagConfig.JWTSecret, "j", "", "JWT signing secret")
	flags.DurationVar(&flagConfig.JWTTTL, "jwt-ttl", defaultJWTTTL, "JWT lifetime")
	flags.BoolVar(&flagConfig.CookieSecure, "cookie-secure", false, "Set Secure attribute on auth cookie")
	flags.StringVar(&flagConfig.RedisAddr, "redis", "", "Redis address for login lockout")
	flags.StringVar(&flagConfig.KafkaBrokers, "kafka", "", "Kafka brokers, comma separated")
	flags.StringVar(&flagConfig.KafkaTopic, "kafka-topic", defaultKafkaTopic, "Kafka topic for domain events")
	flags.StringVar(&flagConfig.NotifyWebhookURL, "notify-url", "", "Admin notification webhook URL")
	flags.StringVar(&flagConfig.OTLPEndpoint, "otlp", "", "OTLP/HTTP traces endpoint host:port")
	flags.UintVar(&flagConfig.DeliveryWorkers, "delivery-workers", defaultDeliveryWorkers, "Auto delivery workers")
	flags.UintVar(&flagConfig.DeliveryBatch, "delivery-batch", defaultDeliveryBatch, "Orders per delivery iteration")
	flags.DurationVar(&flagConfig.DeliveryInterval, "delivery-interval", defaultDeliveryInterval,
		"Pause between idle delivery iterations")
	flags.Float64Var(&flagConfig.AuthRateLimit, "auth-rate", defaultAuthRateLimit,
		"Allowed register/login requests per second per IP")
	flags.IntVar(&flagConfig.AuthRateBurst, "auth-burst", defaultAuthRateBurst, "Register/login burst per IP")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is not set")
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("jwt secret must be at least %d characters", minJWTSecretLen)
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("auth rate limit and burst must be positive")
	}
	return nil
}
