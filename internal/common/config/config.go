package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"coursemap/internal/exporter/models"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`

	RendererURL    string `yaml:"rendererUrl"`
	LibraryURL     string `yaml:"libraryUrl"`
	LibraryDBPath  string `yaml:"libraryDbPath"`
	StorageRoot    string `yaml:"storageRoot"`
	AssetsDir      string `yaml:"assetsDir"`
	MigrationsPath string `yaml:"migrationsPath"`

	// Export: умолчания экспорта для CLI и запросов без config.
	Export models.ExportConfig `yaml:"export"`
}

// Load загружает конфигурацию: сначала YAML из COURSEMAP_CONFIG (если задан),
// поверх него переменные окружения.
func Load() *Config {
	cfg := defaults()
	if path := os.Getenv("COURSEMAP_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			log.Printf("[CONFIG] %v, using defaults", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.RendererURL = getEnv("RENDERER_URL", cfg.RendererURL)
	cfg.LibraryURL = getEnv("LIBRARY_URL", cfg.LibraryURL)
	cfg.LibraryDBPath = getEnv("LIBRARY_DB_PATH", cfg.LibraryDBPath)
	cfg.StorageRoot = getEnv("STORAGE_ROOT", cfg.StorageRoot)
	cfg.AssetsDir = getEnv("ASSETS_DIR", cfg.AssetsDir)
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.MigrationsPath)
	return cfg
}

func defaults() *Config {
	return &Config{
		Port:           "3000",
		Environment:    "development",
		ReadTimeout:    10,
		WriteTimeout:   10,
		RendererURL:    "http://localhost:3001",
		LibraryURL:     "http://localhost:3002",
		LibraryDBPath:  "data/db/library.db",
		StorageRoot:    "data/exports",
		AssetsDir:      "assets",
		MigrationsPath: "",
		Export:         models.DefaultExportConfig(),
	}
}

// overlayFile накладывает YAML поверх текущих значений: отсутствующие ключи не трогаются.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// PortOr: порт сервиса, если PORT не задан ни в окружении, ни в файле.
func (c *Config) PortOr(port string) string {
	if os.Getenv("PORT") == "" && c.Port == "3000" {
		return port
	}
	return c.Port
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
