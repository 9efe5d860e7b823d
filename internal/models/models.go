package models

import "time"

type OrderStatus string

// Статусы заказа. Значения хранятся в базе как есть и показываются
// пользователю без перевода, поэтому они на узбекском.
const (
	OrderStatusPending   OrderStatus = "Jarayonda"     // ждет решения админа
	OrderStatusAccepted  OrderStatus = "Qabul qilindi" // принят в работу
	OrderStatusRejected  OrderStatus = "Rad etildi"    // отклонен
	OrderStatusCompleted OrderStatus = "Bajarildi"     // выполнен
)

// Emoji возвращает значок статуса для списков заказов.
func (s OrderStatus) Emoji() string {
	switch s {
	case OrderStatusPending:
		return "⏳"
	case OrderStatusAccepted:
		return "✅"
	case OrderStatusRejected:
		return "❌"
	case OrderStatusCompleted:
		return "✔️"
	default:
		return "❓"
	}
}

// User - зарегистрированный пользователь бота
type User struct {
	ID         int64      `db:"id"`
	TelegramID int64      `db:"telegram_id"`
	Username   string     `db:"username"`
	CreatedAt  time.Time  `db:"created_at"`
	LastActive *time.Time `db:"last_active"`
}

// Order - заказ на учебную работу
type Order struct {
	ID          int64       `db:"order_id"`
	UserID      int64       `db:"user_id"` // telegram id заказчика
	UserName    string      `db:"user_name"`
	Username    string      `db:"username"`
	Phone       string      `db:"phone"`
	Service     string      `db:"service"`
	Subject     string      `db:"subject"`
	Pages       int         `db:"pages"`
	Price       int64       `db:"price"` // цена за страницу на момент оформления
	TotalPrice  int64       `db:"total_price"`
	Deadline    string      `db:"deadline"` // календарная дата DD.MM.YYYY, без времени
	Status      OrderStatus `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
	ConfirmedBy int64       `db:"confirmed_by_admin_id"` // 0, пока заказ не принят
}

// Contact - переданный пользователем контакт
type Contact struct {
	PhoneNumber string
}

// Message - входящее сообщение от пользователя
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
	Username  string
	FullName  string
	Contact   *Contact
}

// CallbackQuery - нажатие на инлайн-кнопку
type CallbackQuery struct {
	ID        string // ID callback запроса
	UserID    int64  // кто нажал
	UserName  string // имя пользователя
	UserLogin string // логин пользователя в Telegram
	ChatID    int64  // чат, в котором была нажата кнопка
	MessageID int    // сообщение с кнопкой
	Data      string // данные кнопки (например, "accept_12")
}
