// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Бэкенды хранилища баллов.
const (
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Публичный базовый URL вебхука. Пусто — работаем через long polling.
	WebhookURL string `envconfig:"WEBHOOK_URL" default:""`
	// Порт HTTP-сервера вебхука
	Port int `envconfig:"PORT" default:"8443"`
	// Если задан — бот отвечает только в этом чате (и в личках).
	// 0 — отвечаем везде, как в исходном боте.
	AllowedChatID int64 `envconfig:"ALLOWED_CHAT_ID" default:"0"`

	// --- Store ---
	// Бэкенд хранилища: redis или postgres
	StoreBackend string `envconfig:"STORE_BACKEND" default:"redis"`
	RedisURL     string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	// Префикс ключей реестра баллов в общем key-value пространстве
	ScorePrefix string `envconfig:"SCORE_PREFIX" default:"cls:"`

	// --- Database (для STORE_BACKEND=postgres) ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose).
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"points_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Authorization ---
	// Время жизни кэша списка администраторов чата
	AdminCacheTTL time.Duration `envconfig:"ADMIN_CACHE_TTL" default:"1h"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Daily digest ---
	// Чат для ежедневной публикации рейтинга. 0 — публикация отключена.
	DigestChatID int64 `envconfig:"DIGEST_CHAT_ID" default:"0"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	// envconfig пропускает выставленную, но пустую переменную
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не задан")
	}
	if c.StoreBackend != StoreBackendRedis && c.StoreBackend != StoreBackendPostgres {
		return fmt.Errorf("STORE_BACKEND должен быть %q или %q", StoreBackendRedis, StoreBackendPostgres)
	}
	if c.StoreBackend == StoreBackendPostgres && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD обязателен при STORE_BACKEND=postgres")
	}
	if c.ScorePrefix == "" {
		return fmt.Errorf("SCORE_PREFIX не может быть пустым")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("некорректный PORT: %d", c.Port)
	}
	if c.AdminCacheTTL <= 0 {
		return fmt.Errorf("ADMIN_CACHE_TTL должен быть > 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
