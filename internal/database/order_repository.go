package database

import (
	"database/sql"
	"errors"
	"time"

	"referat-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrOrderNotFound возвращается, когда заказ с указанным id не существует
var ErrOrderNotFound = errors.New("заказ не найден")

const orderColumns = `
        order_id,
        user_id,
        user_name,
        COALESCE(username, '') AS username,
        COALESCE(phone, '') AS phone,
        service,
        subject,
        pages,
        price,
        total_price,
        deadline,
        status,
        created_at,
        COALESCE(confirmed_by_admin_id, 0) AS confirmed_by_admin_id`

// OrderRepository представляет репозиторий для работы с заказами
type OrderRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *sqlx.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// CreateOrder сохраняет новый заказ и возвращает присвоенный ему номер
func (r *OrderRepository) CreateOrder(order models.Order) (int64, error) {
	query := `
        INSERT INTO orders (user_id, user_name, username, phone, service, subject,
                            pages, price, total_price, deadline, status)
        VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
        RETURNING order_id
    `

	var orderID int64
	err := r.db.QueryRow(
		query,
		order.UserID,
		order.UserName,
		order.Username,
		order.Phone,
		order.Service,
		order.Subject,
		order.Pages,
		order.Price,
		order.TotalPrice,
		order.Deadline,
		order.Status,
	).Scan(&orderID)
	if err != nil {
		r.logger.Error("Ошибка при создании заказа",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
		)
		return 0, err
	}

	r.logger.Info("Создан новый заказ",
		zap.Int64("order_id", orderID),
		zap.Int64("user_id", order.UserID),
		zap.String("service", order.Service),
	)

	return orderID, nil
}

// GetOrders возвращает все заказы либо заказы в указанном статусе.
// Пустой статус означает "без фильтра". Порядок - порядок вставки.
func (r *OrderRepository) GetOrders(status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	var err error

	if status == "" {
		err = r.db.Select(&orders, `SELECT `+orderColumns+` FROM orders ORDER BY order_id`)
	} else {
		err = r.db.Select(&orders,
			`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY order_id`, status)
	}

	if err != nil {
		r.logger.Error("Ошибка при получении заказов",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, err
	}

	return orders, nil
}

// GetOrderByID возвращает заказ по его номеру
func (r *OrderRepository) GetOrderByID(orderID int64) (models.Order, error) {
	var order models.Order
	err := r.db.Get(&order,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("Заказ не найден", zap.Int64("order_id", orderID))
			return models.Order{}, ErrOrderNotFound
		}
		r.logger.Error("Ошибка при получении заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return models.Order{}, err
	}

	return order, nil
}

// GetRecentOrders возвращает последние limit заказов, новые первыми
func (r *OrderRepository) GetRecentOrders(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Select(&orders,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		r.logger.Error("Ошибка при получении последних заказов", zap.Error(err))
		return nil, err
	}

	return orders, nil
}

// CountOrdersSince возвращает число заказов пользователя, созданных после since.
// Используется для суточного лимита заказов.
func (r *OrderRepository) CountOrdersSince(userID int64, since time.Time) (int, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1 AND created_at > $2`, userID, since)
	if err != nil {
		r.logger.Error("Ошибка при подсчете заказов пользователя",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return 0, err
	}

	return count, nil
}

// UpdateOrderStatus переводит заказ в новый статус. Если confirmedBy
// не ноль, одновременно записывается id принявшего админа.
func (r *OrderRepository) UpdateOrderStatus(orderID int64, status models.OrderStatus, confirmedBy int64) error {
	var (
		res sql.Result
		err error
	)

	if confirmedBy != 0 {
		res, err = r.db.Exec(
			`UPDATE orders SET status = $1, confirmed_by_admin_id = $2 WHERE order_id = $3`,
			status, confirmedBy, orderID,
		)
	} else {
		res, err = r.db.Exec(
			`UPDATE orders SET status = $1 WHERE order_id = $2`,
			status, orderID,
		)
	}

	if err != nil {
		r.logger.Error("Ошибка при обновлении статуса заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		r.logger.Warn("Статус не обновлен: заказ не найден", zap.Int64("order_id", orderID))
		return ErrOrderNotFound
	}

	r.logger.Info("Статус заказа обновлен",
		zap.Int64("order_id", orderID),
		zap.String("status", string(status)),
	)

	return nil
}

// DeleteOrder удаляет заказ. Нигде в рабочих сценариях не вызывается,
// оставлен как ручной инструмент оператора.
func (r *OrderRepository) DeleteOrder(orderID int64) error {
	res, err := r.db.Exec(`DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		r.logger.Error("Ошибка при удалении заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOrderNotFound
	}

	r.logger.Info("Заказ удален", zap.Int64("order_id", orderID))
	return nil
}

// SumTotalByStatus возвращает сумму total_price заказов в указанном статусе
func (r *OrderRepository) SumTotalByStatus(status models.OrderStatus) (int64, error) {
	var sum int64
	err := r.db.Get(&sum,
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status = $1`, status)
	if err != nil {
		r.logger.Error("Ошибка при подсчете суммы заказов",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return 0, err
	}

	return sum, nil
}
