package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Worker    WorkerConfig    `json:"worker"`
	Auth      AuthConfig      `json:"auth"`
	Mailer    MailerConfig    `json:"mailer"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type ServerConfig struct {
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Environment  string        `json:"environment"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            string        `json:"port"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	Name            string        `json:"name"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

type WorkerConfig struct {
	Concurrency    int           `json:"concurrency"`
	Queues         []string      `json:"queues"`
	ExpirySweep    time.Duration `json:"expiry_sweep"`
	ReminderWindow time.Duration `json:"reminder_window"`
}

type AuthConfig struct {
	JWTSecret         string        `json:"jwt_secret"`
	AccessTokenTTL    time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL   time.Duration `json:"refresh_token_ttl"`
	BCryptCost        int           `json:"bcrypt_cost"`
	ResponseDeadline  time.Duration `json:"response_deadline"`
	MigrateLegacyHash bool          `json:"migrate_legacy_hash"`
}

type MailerConfig struct {
	Endpoint    string        `json:"endpoint"`
	APIKey      string        `json:"api_key"`
	SenderName  string        `json:"sender_name"`
	SenderEmail string        `json:"sender_email"`
	Timeout     time.Duration `json:"timeout"`
	Enabled     bool          `json:"enabled"`
}

type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	RequestsPerMin  int           `json:"requests_per_minute"`
	BurstSize       int           `json:"burst_size"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "volunteer_hub"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Worker: WorkerConfig{
			Concurrency:    getEnvAsInt("WORKER_CONCURRENCY", 4),
			Queues:         []string{"default", "emails", "sweeps"},
			ExpirySweep:    getEnvAsDuration("WORKER_EXPIRY_SWEEP", time.Minute),
			ReminderWindow: getEnvAsDuration("WORKER_REMINDER_WINDOW", 6*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenTTL:    getEnvAsDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL:   getEnvAsDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
			BCryptCost:        getEnvAsInt("BCRYPT_COST", 10),
			ResponseDeadline:  getEnvAsDuration("ASSIGNMENT_RESPONSE_DEADLINE", 24*time.Hour),
			MigrateLegacyHash: getEnvAsBool("MIGRATE_LEGACY_HASHES", true),
		},
		Mailer: MailerConfig{
			Endpoint:    getEnv("MAILER_ENDPOINT", "https://api.brevo.com/v3/smtp/email"),
			APIKey:      getEnv("MAILER_API_KEY", ""),
			SenderName:  getEnv("MAILER_SENDER_NAME", "Volunteer Hub"),
			SenderEmail: getEnv("MAILER_SENDER_EMAIL", "noreply@volunteerhub.local"),
			Timeout:     getEnvAsDuration("MAILER_TIMEOUT", 10*time.Second),
			Enabled:     getEnvAsBool("MAILER_ENABLED", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:         getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin:  getEnvAsInt("RATE_LIMIT_RPM", 100),
			BurstSize:       getEnvAsInt("RATE_LIMIT_BURST", 10),
			CleanupInterval: getEnvAsDuration("RATE_LIMIT_CLEANUP", 10*time.Minute),
		},
	}

	if config.Database.Password == "" && config.Server.Environment == "production" {
		return nil, fmt.Errorf("database password is required in production")
	}

	if config.Auth.JWTSecret == "your-secret-key" && config.Server.Environment == "production" {
		return nil, fmt.Errorf("JWT secret must be set in production")
	}

	if config.Mailer.Enabled && config.Mailer.APIKey == "" {
		return nil, fmt.Errorf("mailer API key is required when the mailer is enabled")
	}

	return config, nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
