package database

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Схема создается идемпотентно при каждом запуске, отдельных миграций нет.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    telegram_id BIGINT NOT NULL UNIQUE,
    username TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_active TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS orders (
    order_id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    user_name TEXT NOT NULL,
    username TEXT,
    phone TEXT,
    service TEXT NOT NULL,
    subject TEXT NOT NULL,
    pages INT NOT NULL,
    price BIGINT NOT NULL,
    total_price BIGINT NOT NULL,
    deadline TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Jarayonda',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    confirmed_by_admin_id BIGINT
);
`

// EnsureSchema создает таблицы users и orders, если их еще нет
func EnsureSchema(db *sqlx.DB, logger *zap.Logger) error {
	if _, err := db.Exec(schema); err != nil {
		logger.Error("Ошибка при создании таблиц", zap.Error(err))
		return err
	}

	logger.Info("Таблицы успешно созданы или уже существовали")
	return nil
}
