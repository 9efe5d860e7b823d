package bot

import (
	"fmt"
	"sync"
	"time"

	"referat-bot/internal/models"

	"go.uber.org/zap"
)

// ReminderService отвечает за отправку напоминаний по заказам,
// которые долго остаются без ответа админов
type ReminderService struct {
	orders        OrderStore
	telegram      TelegramClient
	logger        *zap.Logger
	adminUsername string
	delay         time.Duration // время, после которого отправляется напоминание

	mu     sync.Mutex
	timers map[int64]*time.Timer // по одному таймеру на заказ
}

// NewReminderService создает новый сервис напоминаний
func NewReminderService(
	orders OrderStore,
	telegram TelegramClient,
	logger *zap.Logger,
	adminUsername string,
) *ReminderService {
	return &ReminderService{
		orders:        orders,
		telegram:      telegram,
		logger:        logger,
		adminUsername: adminUsername,
		delay:         reminderDelay,
		timers:        make(map[int64]*time.Timer),
	}
}

// Schedule взводит отложенное напоминание по заказу. Вызов не
// блокирует оформление: таймер срабатывает в своей горутине.
func (s *ReminderService) Schedule(orderID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.timers[orderID]; exists {
		return
	}

	s.timers[orderID] = time.AfterFunc(s.delay, func() {
		s.fire(orderID, userID)
	})

	s.logger.Info("Запланировано напоминание по заказу",
		zap.Int64("order_id", orderID),
		zap.Duration("delay", s.delay),
	)
}

// Cancel снимает напоминание, если оно еще не сработало. Вызов
// необязателен: fire сам перечитывает статус заказа.
func (s *ReminderService) Cancel(orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[orderID]; ok {
		timer.Stop()
		delete(s.timers, orderID)
	}
}

// fire перечитывает заказ и напоминает заказчику, только если заказ
// все еще ждет решения. Устаревшее чтение лишь пропустит напоминание.
func (s *ReminderService) fire(orderID, userID int64) {
	s.mu.Lock()
	delete(s.timers, orderID)
	s.mu.Unlock()

	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		s.logger.Error("Ошибка при чтении заказа для напоминания",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return
	}

	if order.Status != models.OrderStatusPending {
		s.logger.Debug("Напоминание не требуется: заказ уже обработан",
			zap.Int64("order_id", orderID),
			zap.String("status", string(order.Status)),
		)
		return
	}

	text := fmt.Sprintf(
		"⏳ <b>Buyurtma #%d hali tasdiqlanmadi!</b>\n"+
			"ℹ️ Shoshilinch bo'lsa, admin bilan bog'laning: @%s",
		orderID, s.adminUsername,
	)

	if _, err := s.telegram.SendHTMLMessage(userID, text); err != nil {
		s.logger.Error("Ошибка при отправке напоминания",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("order_id", orderID),
		)
		return
	}

	s.logger.Info("Напоминание отправлено",
		zap.Int64("user_id", userID),
		zap.Int64("order_id", orderID),
	)
}
