package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	NewsAPI    NewsAPIConfig
	Email      EmailConfig
	Kiosk      KioskConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
	Issuer        string `mapstructure:"issuer"`
}

// CloudinaryConfig содержит настройки хранилища медиа-файлов
type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
}

// NewsAPIConfig содержит настройки внешней новостной ленты
type NewsAPIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Country  string `mapstructure:"country"`
	Category string `mapstructure:"category"`
	MaxRows  int    `mapstructure:"max_rows"`
}

// EmailConfig содержит настройки транзакционной почты (Resend)
type EmailConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	AlertTo   string `mapstructure:"alert_to"`
}

// KioskConfig содержит настройки дисплей-агента
type KioskConfig struct {
	APIBaseURL           string        `mapstructure:"api_base_url"`
	StateFile            string        `mapstructure:"state_file"`
	PingInterval         time.Duration `mapstructure:"ping_interval"`
	ForceRefreshInterval time.Duration `mapstructure:"force_refresh_interval"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Новый экземпляр Viper, чтобы избежать глобального состояния

	// Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("newsapi.country", "us")
	vip.SetDefault("newsapi.category", "health")
	vip.SetDefault("newsapi.max_rows", 100)
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("jwt.issuer", "revdeploy")
	vip.SetDefault("cloudinary.folder", "rickshaw-ads")
	vip.SetDefault("kiosk.api_base_url", "http://localhost:8080")
	vip.SetDefault("kiosk.state_file", ".rickshaw-display.json")
	vip.SetDefault("kiosk.ping_interval", 10*time.Second)
	vip.SetDefault("kiosk.force_refresh_interval", 5*time.Second)

	// Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	vip.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	vip.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	vip.BindEnv("cloudinary.folder", "CLOUDINARY_FOLDER")

	vip.BindEnv("newsapi.api_key", "NEWSAPI_KEY")
	vip.BindEnv("newsapi.country", "NEWSAPI_COUNTRY")
	vip.BindEnv("newsapi.category", "NEWSAPI_CATEGORY")
	vip.BindEnv("newsapi.max_rows", "NEWSAPI_MAX_ROWS")

	vip.BindEnv("email.api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from_email", "EMAIL_FROM")
	vip.BindEnv("email.alert_to", "EMAIL_ALERT_TO")

	vip.BindEnv("kiosk.api_base_url", "KIOSK_API_BASE_URL")
	vip.BindEnv("kiosk.state_file", "KIOSK_STATE_FILE")

	vip.BindEnv("server.port", "SERVER_PORT")

	// Читаем файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// Viper объединит значения из файла и привязанных env vars
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Cloudinary Cloud: %s", cfg.Cloudinary.CloudName)
		log.Printf("NewsAPI Key Set: %t", cfg.NewsAPI.APIKey != "")
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}

	return &cfg, nil
}

// LoadKiosk загружает только ту часть конфигурации, которая нужна дисплей-агенту.
// Агент работает без БД и Redis, поэтому обязательные проверки сервера не применяются.
func LoadKiosk(configPath string) (*KioskConfig, error) {
	vip := viper.New()

	vip.SetDefault("kiosk.api_base_url", "http://localhost:8080")
	vip.SetDefault("kiosk.state_file", ".rickshaw-display.json")
	vip.SetDefault("kiosk.ping_interval", 10*time.Second)
	vip.SetDefault("kiosk.force_refresh_interval", 5*time.Second)

	vip.BindEnv("kiosk.api_base_url", "KIOSK_API_BASE_URL")
	vip.BindEnv("kiosk.state_file", "KIOSK_STATE_FILE")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			log.Printf("Файл конфигурации '%s' не прочитан (%v), используются переменные окружения/умолчания.", configPath, err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kiosk config: %w", err)
	}

	return &cfg.Kiosk, nil
}
