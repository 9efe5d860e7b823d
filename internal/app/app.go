package app

import (
	"referat-bot/internal/bot"
	"referat-bot/internal/config"
	"referat-bot/internal/database"
	"referat-bot/internal/logger"
	"referat-bot/internal/settings"
	"referat-bot/internal/telegram"

	"go.uber.org/zap"
)

func Run(configPath string, verbose bool) error {
	// Загружаем конфигурацию
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	// Инициализируем логгер
	logger, err := logger.New(cfg.Logger)
	if err != nil {
		zap.L().Error("не удалось создать логгер", zap.Error(err))
		return err
	}

	// Подключаемся к базе данных
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Error("не удалось подключиться к базе данных", zap.Error(err))
		return err
	}

	// Накатываем схему
	if err := database.EnsureSchema(db, logger); err != nil {
		logger.Error("не удалось применить схему базы данных", zap.Error(err))
		return err
	}

	// Инициализируем репозитории
	userRepo := database.NewUserRepository(db, logger)
	orderRepo := database.NewOrderRepository(db, logger)

	// Загружаем список админов и прайс-лист
	settingsService, err := settings.Load(cfg.Bot.SettingsPath, cfg.Bot.AdminIDs, logger)
	if err != nil {
		logger.Error("не удалось загрузить настройки бота", zap.Error(err))
		return err
	}

	// Инициализируем Telegram клиент
	tgClient, err := telegram.NewTelegramClient(cfg.Telegram.Token)
	if err != nil {
		logger.Error("не удалось создать Telegram клиент", zap.Error(err))
		return err
	}

	// Рассылка уведомлений и отложенные напоминания
	notifier := bot.NewNotifier(tgClient, settingsService, logger, cfg.Telegram)
	reminderService := bot.NewReminderService(orderRepo, tgClient, logger, cfg.Telegram.AdminUsername)

	// Инициализируем сервис заказов
	orderService := bot.NewOrderService(orderRepo, userRepo, notifier, reminderService, logger)

	// Инициализируем основной сервис бота
	botService := bot.NewService(
		tgClient,
		logger,
		settingsService,
		userRepo,
		orderRepo,
		orderService,
		notifier,
		cfg.Telegram,
	)

	// Запускаем бота
	if err := botService.Start(); err != nil {
		logger.Error("ошибка запуска бота", zap.Error(err))
		return err
	}

	return nil
}
