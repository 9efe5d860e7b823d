package database

import (
	"database/sql"
	"errors"
	"time"

	"referat-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserRepository представляет репозиторий для работы с пользователями
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser добавляет пользователя, если его еще нет.
// Возвращает true, если была создана новая запись. Повторный вызов
// с тем же telegram_id ничего не меняет.
func (r *UserRepository) CreateUser(telegramID int64, username string) (bool, error) {
	query := `
        INSERT INTO users (telegram_id, username)
        VALUES ($1, $2)
        ON CONFLICT (telegram_id) DO NOTHING
    `

	res, err := r.db.Exec(query, telegramID, username)
	if err != nil {
		r.logger.Error("Ошибка при создании пользователя",
			zap.Error(err),
			zap.Int64("telegram_id", telegramID),
		)
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if rows > 0 {
		r.logger.Info("Добавлен новый пользователь",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)
	}

	return rows > 0, nil
}

// UpdateLastActive обновляет время последней активности пользователя
func (r *UserRepository) UpdateLastActive(telegramID int64) error {
	query := `UPDATE users SET last_active = $1 WHERE telegram_id = $2`

	if _, err := r.db.Exec(query, time.Now(), telegramID); err != nil {
		r.logger.Error("Ошибка при обновлении последней активности",
			zap.Error(err),
			zap.Int64("telegram_id", telegramID),
		)
		return err
	}

	return nil
}

// GetUserByID возвращает пользователя по telegram id.
// Если пользователь не найден, возвращается пустая структура без ошибки.
func (r *UserRepository) GetUserByID(telegramID int64) (models.User, error) {
	var user models.User
	query := `
        SELECT id, telegram_id, COALESCE(username, '') AS username, created_at, last_active
        FROM users
        WHERE telegram_id = $1
    `

	err := r.db.Get(&user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, nil
		}
		r.logger.Error("Ошибка при получении пользователя",
			zap.Error(err),
			zap.Int64("telegram_id", telegramID),
		)
		return models.User{}, err
	}

	return user, nil
}

// CountUsers возвращает общее число пользователей
func (r *UserRepository) CountUsers() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		r.logger.Error("Ошибка при подсчете пользователей", zap.Error(err))
		return 0, err
	}

	return count, nil
}
