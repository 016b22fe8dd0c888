package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config contiene la configuración de la aplicación
type Config struct {
	Port     string
	Env      string
	LogLevel string
	LogFile  string

	// Storage selecciona el data context: "gorm" o "file"
	Storage       string
	FileStorePath string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	MemcachedHost string

	RabbitMQURL       string
	NotificationQueue string
	EmailOutboxQueue  string
	SmsOutboxQueue    string

	MongoURI      string
	MongoDatabase string

	SettingsFile string
	Settings     Settings
}

// LoadConfig carga la configuración desde .env, variables de entorno y el archivo de settings
func LoadConfig() (*Config, error) {
	// .env es opcional, en producción las variables vienen del entorno
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),
		LogFile:  getEnv("LOG_FILE", ""),

		Storage:       getEnv("STORAGE", "gorm"),
		FileStorePath: getEnv("FILE_STORE_PATH", "./data"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "booking_user"),
		DBPassword: getEnv("DB_PASSWORD", "booking_password"),
		DBName:     getEnv("DB_NAME", "booking_db"),
		SQLitePath: getEnv("SQLITE_PATH", "booking.db"),

		MemcachedHost: getEnv("MEMCACHED_HOST", ""),

		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		NotificationQueue: getEnv("NOTIFICATION_QUEUE", "notification_requests"),
		EmailOutboxQueue:  getEnv("EMAIL_OUTBOX_QUEUE", "email_outbox"),
		SmsOutboxQueue:    getEnv("SMS_OUTBOX_QUEUE", "sms_outbox"),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "booking_archive"),

		SettingsFile: getEnv("SETTINGS_FILE", "settings.yaml"),
	}

	settings, err := LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	cfg.Settings = *settings

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case "gorm", "file":
	default:
		return fmt.Errorf("unsupported STORAGE %q", c.Storage)
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	return nil
}

// IsProduction indica si el servicio corre en modo producción
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
