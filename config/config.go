package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"agribot/processing"
)

// Config — конфигурация сервиса загрузки данных. Все значения, включая
// списки допустимых направлений и складов, передаются в пайплайн явно;
// глобального изменяемого состояния здесь нет.
type Config struct {
	// Сервер
	Port string

	// База данных
	DatabasePath string

	// Загрузка
	ChunkSize     int
	MaxUploadSize int64

	// Ограничение частоты запросов к API загрузки
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Таймаут одного запуска ETL
	RunTimeout time.Duration

	// Списки допустимых значений для фильтра остатков
	AllowListPath string
	AllowLists    AllowLists
}

// AllowLists — допустимые значения направления бизнеса и склада для
// выгрузки остатков. Записи вне списков отбрасываются при нормализации.
type AllowLists struct {
	LineOfBusiness []string `json:"line_of_business"`
	Warehouse      []string `json:"warehouse"`
}

// Load загружает конфигурацию из переменных окружения и, если задан путь,
// списки допустимых значений из JSON-файла.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("SERVER_PORT", "8000"),
		DatabasePath:       getEnv("DATABASE_PATH", "agribot.db"),
		ChunkSize:          getEnvInt("LOAD_CHUNK_SIZE", 1000),
		MaxUploadSize:      int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 100)) << 20,
		RateLimitPerSecond: getEnvFloat("UPLOAD_RATE_LIMIT_PER_SEC", 1),
		RateLimitBurst:     getEnvInt("UPLOAD_RATE_LIMIT_BURST", 5),
		RunTimeout:         getEnvDuration("RUN_TIMEOUT", 15*time.Minute),
		AllowListPath:      getEnv("ALLOWLIST_PATH", "allowlists.json"),
	}

	if cfg.AllowListPath != "" {
		lists, err := LoadAllowLists(cfg.AllowListPath)
		switch {
		case err == nil:
			cfg.AllowLists = lists
		case errors.Is(err, os.ErrNotExist) && os.Getenv("ALLOWLIST_PATH") == "":
			// Файл по умолчанию отсутствует: фильтр остатков остаётся пустым
			// и отбрасывает все записи, пока списки не заданы.
		default:
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadAllowLists читает списки допустимых значений из JSON-файла.
func LoadAllowLists(path string) (AllowLists, error) {
	var lists AllowLists

	data, err := os.ReadFile(path)
	if err != nil {
		return lists, fmt.Errorf("failed to read allow lists from %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &lists); err != nil {
		return lists, fmt.Errorf("failed to parse allow lists from %s: %w", path, err)
	}
	return lists, nil
}

// RemainsFilter возвращает фильтр остатков, собранный из списков допустимых
// значений.
func (c *Config) RemainsFilter() processing.RemainsFilter {
	return processing.RemainsFilter{
		LineOfBusiness: c.AllowLists.LineOfBusiness,
		Warehouse:      c.AllowLists.Warehouse,
	}
}

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got: %d", c.ChunkSize)
	}
	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
