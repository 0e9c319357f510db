package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SavesBackendFile     = "file"
	SavesBackendPostgres = "postgres"
	SavesBackendSQLite   = "sqlite"
)

type Config struct {
	Menu     MenuConfig
	Saves    SavesConfig
	DB       DBConfig
	Telegram TelegramConfig
	Delivery DeliveryConfig
	LogLevel string
}

type MenuConfig struct {
	File string
}

type SavesConfig struct {
	Backend    string // "file", "postgres" or "sqlite"
	File       string
	SQLitePath string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// TelegramConfig enables the admin notifier when both Token and AdminChatID are set.
type TelegramConfig struct {
	Token       string
	AdminChatID int64
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.AdminChatID != 0
}

// DeliveryConfig holds the delivery surcharge rule, in minor units.
type DeliveryConfig struct {
	FreeOver int64 // subtotals strictly above this are delivered free
	Fee      int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	var adminID int64
	if v := getEnv("ADMIN_ID", ""); v != "" {
		adminID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ID: %w", err)
		}
	}

	backend := strings.ToLower(getEnv("SAVES_BACKEND", SavesBackendFile))
	switch backend {
	case SavesBackendFile, SavesBackendPostgres, SavesBackendSQLite:
	default:
		return nil, fmt.Errorf("invalid SAVES_BACKEND: %s", backend)
	}

	return &Config{
		Menu: MenuConfig{
			File: getEnv("MENU_FILE", "menu.txt"),
		},
		Saves: SavesConfig{
			Backend:    backend,
			File:       getEnv("SAVES_FILE", "Saves.txt"),
			SQLitePath: getEnv("SQLITE_PATH", "orders.db"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "food_console"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TOKEN", ""),
			AdminChatID: adminID,
		},
		Delivery: DeliveryConfig{
			FreeOver: 2000,
			Fee:      200,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
