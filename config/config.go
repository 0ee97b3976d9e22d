package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultProcessingSeconds = 2

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Auth      AuthConfig      `yaml:"auth"`
	Purchase  PurchaseConfig  `yaml:"purchase"`
	Worker    WorkerConfig    `yaml:"worker"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
}

type AppConfig struct {
	Env string `yaml:"env"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" validate:"required"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" validate:"required"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// MigrateURL is the pgx5:// URL understood by golang-migrate.
func (d DatabaseConfig) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers             []string `yaml:"brokers"`
	FlightEventsTopic   string   `yaml:"flight_events_topic"`
	PurchaseEventsTopic string   `yaml:"purchase_events_topic"`
	GroupID             string   `yaml:"group_id"`
}

type AuthConfig struct {
	EnforceRoles bool `yaml:"enforce_roles"`
}

type PurchaseConfig struct {
	ProcessingSeconds int `yaml:"processing_seconds" validate:"min=0"`
}

func (p PurchaseConfig) ProcessingDelay() time.Duration {
	return time.Duration(p.ProcessingSeconds) * time.Second
}

type WorkerConfig struct {
	PoolSize           int `yaml:"pool_size" validate:"min=1"`
	QueueSize          int `yaml:"queue_size" validate:"min=1"`
	TaskTimeoutSeconds int `yaml:"task_timeout_seconds" validate:"min=1"`
	ShutdownSeconds    int `yaml:"shutdown_seconds" validate:"min=1"`
}

type RateLimitConfig struct {
	Backend       string `yaml:"backend" validate:"oneof=memory redis"`
	PurchaseLimit int    `yaml:"purchase_limit" validate:"min=0"`
	WindowSeconds int    `yaml:"window_seconds" validate:"min=1"`
	Capacity      int    `yaml:"capacity" validate:"min=1"`
}

type CacheConfig struct {
	AirlinesTTLSeconds int `yaml:"airlines_ttl_seconds" validate:"min=0"`
}

func defaults() Config {
	return Config{
		App:      AppConfig{Env: "development"},
		HTTP:     HTTPConfig{Address: ":8801"},
		Database: DatabaseConfig{Host: "127.0.0.1", Port: 5432, User: "postgres", Name: "let_service", SSLMode: "disable"},
		Redis:    RedisConfig{Addr: "127.0.0.1:6379"},
		Kafka: KafkaConfig{
			FlightEventsTopic:   "flight_events",
			PurchaseEventsTopic: "purchase_events",
			GroupID:             "let-notifier",
		},
		Purchase:  PurchaseConfig{ProcessingSeconds: DefaultProcessingSeconds},
		Worker:    WorkerConfig{PoolSize: 8, QueueSize: 256, TaskTimeoutSeconds: 10, ShutdownSeconds: 15},
		RateLimit: RateLimitConfig{Backend: "memory", PurchaseLimit: 30, WindowSeconds: 60, Capacity: 10000},
		Cache:     CacheConfig{AirlinesTTLSeconds: 300},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then a
// .env file next to the process (if any), then LET_* environment overrides.
// An empty path skips the YAML step.
func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error

	if v, ok := lookup("LET_APP_ENV"); ok {
		cfg.App.Env = v
	}
	if v, ok := lookup("LET_HTTP_ADDRESS"); ok {
		cfg.HTTP.Address = v
	}
	if v, ok := lookup("LET_DB_HOST"); ok {
		cfg.Database.Host = v
	}
	if v, ok := lookup("LET_DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, errors.New("conversion failed env: LET_DB_PORT"))
		}
		cfg.Database.Port = port
	}
	if v, ok := lookup("LET_DB_USER"); ok {
		cfg.Database.User = v
	}
	if v, ok := os.LookupEnv("LET_DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := lookup("LET_DB_NAME"); ok {
		cfg.Database.Name = v
	}
	if v, ok := lookup("LET_REDIS_ADDR"); ok {
		cfg.Redis.Addr = v
	}
	if v, ok := lookup("LET_KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v, ok := lookup("LET_PURCHASE_PROCESSING_SECONDS"); ok {
		cfg.Purchase.ProcessingSeconds = parseProcessingSeconds(v)
	}
	if v, ok := lookup("LET_ENFORCE_ROLES"); ok {
		cfg.Auth.EnforceRoles = parseBool(v)
	}

	// yaml may carry a negative value too
	if cfg.Purchase.ProcessingSeconds < 0 {
		cfg.Purchase.ProcessingSeconds = 0
	}

	return errors.Join(errs...)
}

// parseProcessingSeconds never fails: garbage means the default, negative
// means no delay.
func parseProcessingSeconds(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultProcessingSeconds
	}
	if value < 0 {
		return 0
	}
	return value
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
