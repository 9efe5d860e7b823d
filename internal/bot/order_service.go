package bot

import (
	"errors"
	"time"

	"referat-bot/internal/models"

	"go.uber.org/zap"
)

// Правила жизненного цикла заказа
const (
	orderLimit    = 5              // максимум заказов от одного пользователя
	orderWindow   = 24 * time.Hour // в скользящем окне такой длины
	reminderDelay = 12 * time.Hour // напоминание по неотвеченному заказу
)

var (
	// ErrRateLimited - пользователь исчерпал лимит заказов за сутки
	ErrRateLimited = errors.New("превышен лимит заказов")
	// ErrIllegalTransition - смена статуса из недопустимого состояния
	ErrIllegalTransition = errors.New("недопустимый переход статуса")
	// ErrWrongAdmin - завершить заказ может только принявший его админ
	ErrWrongAdmin = errors.New("заказ принят другим админом")
)

// NewOrderService создает сервис жизненного цикла заказов
func NewOrderService(
	orders OrderStore,
	users UserStore,
	notifier *Notifier,
	reminders *ReminderService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		notifier:  notifier,
		reminders: reminders,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit проверяет суточный лимит, сохраняет заказ в статусе
// "Jarayonda", уведомляет админов и взводит напоминание.
// Итоговая цена всегда пересчитывается здесь: pages * price.
func (s *OrderService) Submit(order models.Order) (models.Order, error) {
	count, err := s.orders.CountOrdersSince(order.UserID, s.now().Add(-orderWindow))
	if err != nil {
		return models.Order{}, err
	}
	if count >= orderLimit {
		s.logger.Warn("Пользователь превысил лимит заказов",
			zap.Int64("user_id", order.UserID),
			zap.Int("recent_orders", count),
		)
		return models.Order{}, ErrRateLimited
	}

	order.Status = models.OrderStatusPending
	order.TotalPrice = int64(order.Pages) * order.Price
	order.CreatedAt = s.now()

	orderID, err := s.orders.CreateOrder(order)
	if err != nil {
		return models.Order{}, err
	}
	order.ID = orderID

	// Уведомления и напоминание не влияют на судьбу уже сохраненного
	// заказа: их ошибки логируются внутри
	s.notifier.NewOrder(order)
	s.reminders.Schedule(orderID, order.UserID)

	s.logger.Info("Заказ оформлен",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", order.UserID),
		zap.String("service", order.Service),
		zap.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// Accept принимает заказ: законно только из "Jarayonda". Записывает
// принявшего админа, шлет заказчику реквизиты, остальным админам -
// отметку о разборе.
func (s *OrderService) Accept(orderID, adminID int64, adminUsername string) (models.Order, error) {
	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status != models.OrderStatusPending {
		return models.Order{}, ErrIllegalTransition
	}

	if err := s.orders.UpdateOrderStatus(orderID, models.OrderStatusAccepted, adminID); err != nil {
		return models.Order{}, err
	}

	order.Status = models.OrderStatusAccepted
	order.ConfirmedBy = adminID

	s.reminders.Cancel(orderID)
	s.notifier.OrderAccepted(order, adminID, adminUsername)

	s.logger.Info("Заказ принят",
		zap.Int64("order_id", orderID),
		zap.Int64("admin_id", adminID),
	)

	return order, nil
}

// Reject отклоняет заказ с причиной: законно только из "Jarayonda"
func (s *OrderService) Reject(orderID int64, reason string) (models.Order, error) {
	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status != models.OrderStatusPending {
		return models.Order{}, ErrIllegalTransition
	}

	if err := s.orders.UpdateOrderStatus(orderID, models.OrderStatusRejected, 0); err != nil {
		return models.Order{}, err
	}

	order.Status = models.OrderStatusRejected

	s.reminders.Cancel(orderID)
	s.notifier.OrderRejected(order, reason)

	s.logger.Info("Заказ отклонен",
		zap.Int64("order_id", orderID),
		zap.String("reason", reason),
	)

	return order, nil
}

// Complete завершает заказ: законно только из "Qabul qilindi" и
// только для админа, который его принимал
func (s *OrderService) Complete(orderID, adminID int64, adminUsername string) (models.Order, error) {
	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status != models.OrderStatusAccepted {
		return models.Order{}, ErrIllegalTransition
	}
	if order.ConfirmedBy != adminID {
		return models.Order{}, ErrWrongAdmin
	}

	if err := s.orders.UpdateOrderStatus(orderID, models.OrderStatusCompleted, 0); err != nil {
		return models.Order{}, err
	}

	order.Status = models.OrderStatusCompleted

	s.notifier.OrderCompleted(order, adminUsername)

	s.logger.Info("Заказ выполнен",
		zap.Int64("order_id", orderID),
		zap.Int64("admin_id", adminID),
	)

	return order, nil
}

// SendUserMessage передает заказчику произвольное сообщение админа.
// Доступно, пока заказ ждет решения или находится в работе.
func (s *OrderService) SendUserMessage(orderID int64, text string) (models.Order, error) {
	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusAccepted {
		return models.Order{}, ErrIllegalTransition
	}

	if err := s.notifier.MessageToUser(order, text); err != nil {
		return models.Order{}, err
	}

	return order, nil
}

// Stats - сводные показатели для админской панели
type Stats struct {
	TotalUsers      int
	TotalOrders     int
	AcceptedIncome  int64
	RejectedOrders  int
	CompletedOrders int
}

// CollectStats пересчитывает показатели запросами к хранилищу.
// Кэшей и счетчиков нет: корректность обеспечивается пересчетом.
func (s *OrderService) CollectStats() (Stats, error) {
	var stats Stats

	users, err := s.users.CountUsers()
	if err != nil {
		return Stats{}, err
	}
	stats.TotalUsers = users

	orders, err := s.orders.GetOrders("")
	if err != nil {
		return Stats{}, err
	}
	stats.TotalOrders = len(orders)

	income, err := s.orders.SumTotalByStatus(models.OrderStatusAccepted)
	if err != nil {
		return Stats{}, err
	}
	stats.AcceptedIncome = income

	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusRejected:
			stats.RejectedOrders++
		case models.OrderStatusCompleted:
			stats.CompletedOrders++
		}
	}

	return stats, nil
}
