package main

import (
	"flag"
	"log"
	"os"

	"referat-bot/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Путь к файлу конфигурации")
	verbose := flag.Bool("verbose", false, "Включить подробное логирование")
	flag.Parse()

	// Токен бота удобно держать в .env рядом с бинарником
	if err := godotenv.Load(); err == nil {
		log.Println("Загружены переменные окружения из .env")
	}

	// Проверка существования файла конфигурации
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		log.Fatalf("Конфигурационный файл не найден: %s", *configPath)
	}

	if err := app.Run(*configPath, *verbose); err != nil {
		log.Fatal(err)
	}
}
