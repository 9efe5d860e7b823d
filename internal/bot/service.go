package bot

import (
	"fmt"

	"referat-bot/internal/config"
	"referat-bot/internal/settings"

	"go.uber.org/zap"
)

// NewService собирает бота из готовых зависимостей
func NewService(
	telegram TelegramClient,
	logger *zap.Logger,
	settingsService *settings.Service,
	users UserStore,
	orders OrderStore,
	orderService *OrderService,
	notify *Notifier,
	cfg config.Telegram,
) *Service {
	return &Service{
		telegram:     telegram,
		logger:       logger,
		sessions:     NewSessionManager(),
		settings:     settingsService,
		users:        users,
		orders:       orders,
		orderService: orderService,
		notify:       notify,
		cfg:          cfg,
	}
}

// Start запускает получение обновлений и обрабатывает их до закрытия
// каналов. Нажатия кнопок обрабатываются в отдельной горутине, чтобы
// чужой диалог не задерживал ответы на callback; события одного чата
// сериализует мьютекс его сессии.
func (s *Service) Start() error {
	messages, callbacks, err := s.telegram.StartBot()
	if err != nil {
		return fmt.Errorf("ошибка при запуске бота: %w", err)
	}

	s.logger.Info("Бот запущен и принимает обновления")

	go func() {
		for cb := range callbacks {
			s.logger.Debug("Получен callback",
				zap.String("data", cb.Data),
				zap.Int64("chat_id", cb.ChatID),
			)
			s.HandleCallback(cb)
		}
	}()

	for msg := range messages {
		s.logger.Debug("Получено сообщение",
			zap.String("text", msg.Text),
			zap.Int64("chat_id", msg.ChatID),
		)
		s.HandleMessage(msg)
	}

	return nil
}
