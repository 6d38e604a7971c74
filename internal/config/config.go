package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver          string // mysql, postgres or memory
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional, for S3-compatible stores
	AccessKey string
	SecretKey string
	PublicURL string
	Prefix    string
}

type Config struct {
	Port     string
	AppEnv   string
	DB       DBConfig
	RedisURL string

	RabbitMQURL      string
	RabbitMQExchange string

	JWTSecret string
	JWTTTL    time.Duration

	MediaProvider string // cloudinary, s3 or none
	Cloudinary    CloudinaryConfig
	S3            S3Config

	AllowedOrigins     []string
	RateLimitPerMinute int
	CacheTTL           time.Duration
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the environment, after an optional .env file, and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		RedisURL: os.Getenv("REDIS_URL"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "adminhub.exchange"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MediaProvider: strings.ToLower(getEnv("MEDIA_PROVIDER", "none")),
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getEnv("CLOUDINARY_FOLDER", "adminhub"),
		},
		S3: S3Config{
			Region:    getEnv("AWS_REGION", "us-east-1"),
			Bucket:    os.Getenv("AWS_S3_BUCKET"),
			Endpoint:  os.Getenv("AWS_S3_ENDPOINT"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PublicURL: os.Getenv("AWS_S3_PUBLIC_URL"),
			Prefix:    getEnv("AWS_S3_PREFIX", "adminhub"),
		},

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.DB, err = loadDB(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDB() (DBConfig, error) {
	db := DBConfig{
		Driver:          strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DSN:             os.Getenv("DATABASE_DSN"),
		ConnMaxLifetime: 5 * time.Minute,
	}
	var err error
	if db.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 50); err != nil {
		return db, err
	}
	if db.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return db, err
	}

	if db.DSN == "" && db.Driver == "mysql" {
		user := getEnv("MYSQL_USER", "root")
		pass := os.Getenv("MYSQL_PASSWORD")
		host := getEnv("MYSQL_HOST", "localhost")
		port := getEnv("MYSQL_PORT", "3306")
		name := getEnv("MYSQL_DATABASE", "adminhub")
		db.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", user, pass, host, port, name)
	}
	return db, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.DB.Driver {
	case "mysql", "memory":
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.MediaProvider {
	case "none":
	case "cloudinary":
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required for the s3 media provider")
		}
	default:
		return fmt.Errorf("unsupported MEDIA_PROVIDER %q", c.MediaProvider)
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
