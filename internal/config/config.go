// internal/config/config.go
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Logger struct {
	Level string `yaml:"level"`
	Sink  string `yaml:"sink"`
}

type Telegram struct {
	Token         string `yaml:"token"`
	AdminUsername string `yaml:"admin_username"` // контакт для связи с админом
	AdminPhone    string `yaml:"admin_phone"`
	CardNumber    string `yaml:"card_number"` // реквизиты для предоплаты
	CardOwner     string `yaml:"card_owner"`
}

type Bot struct {
	SettingsPath string  `yaml:"settings_path"` // файл со списком админов и ценами
	AdminIDs     []int64 `yaml:"admin_ids"`     // стартовый список админов при первом запуске
}

type AppConfig struct {
	Logger   Logger   `yaml:"log"`
	Telegram Telegram `yaml:"telegram"`
	Database Database `yaml:"database"`
	Bot      Bot      `yaml:"bot"`
}

func NewConfig(path string) (*AppConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var appConfig AppConfig
	if err := yaml.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	// Токен можно не хранить в конфиге, а передать через окружение (.env)
	if appConfig.Telegram.Token == "" {
		appConfig.Telegram.Token = os.Getenv("BOT_TOKEN")
	}

	if appConfig.Bot.SettingsPath == "" {
		appConfig.Bot.SettingsPath = "settings.yaml"
	}

	return &appConfig, nil
}
