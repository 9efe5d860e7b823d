package bot

import (
	"time"

	"referat-bot/internal/config"
	"referat-bot/internal/models"
	"referat-bot/internal/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramClient - интерфейс для взаимодействия с Telegram API
type TelegramClient interface {
	// Базовые методы отправки сообщений
	SendMessage(chatID int64, text string) error
	SendHTMLMessage(chatID int64, text string) (int, error)
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (int, error)
	SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (int, error)

	// Методы для работы с уже отправленными сообщениями
	EditMessageText(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID string, text string, alert bool) error
	GetChatUsername(chatID int64) (string, error)

	// Метод для получения обновлений
	StartBot() (chan models.Message, chan models.CallbackQuery, error)
}

// UserStore - хранилище пользователей
type UserStore interface {
	CreateUser(telegramID int64, username string) (bool, error)
	UpdateLastActive(telegramID int64) error
	CountUsers() (int, error)
}

// OrderStore - хранилище заказов
type OrderStore interface {
	CreateOrder(order models.Order) (int64, error)
	GetOrders(status models.OrderStatus) ([]models.Order, error)
	GetOrderByID(orderID int64) (models.Order, error)
	GetRecentOrders(limit int) ([]models.Order, error)
	CountOrdersSince(userID int64, since time.Time) (int, error)
	UpdateOrderStatus(orderID int64, status models.OrderStatus, confirmedBy int64) error
	SumTotalByStatus(status models.OrderStatus) (int64, error)
}

// Service - основной сервис бота: принимает обновления, ведет диалог
// оформления заказа и админскую панель
type Service struct {
	telegram     TelegramClient
	logger       *zap.Logger
	sessions     *SessionManager
	settings     *settings.Service
	users        UserStore
	orders       OrderStore
	orderService *OrderService
	notify       *Notifier
	cfg          config.Telegram
}

// OrderService - сервис жизненного цикла заказа: создание и смена статусов
type OrderService struct {
	orders    OrderStore
	users     UserStore
	notifier  *Notifier
	reminders *ReminderService
	logger    *zap.Logger
	now       func() time.Time
}
