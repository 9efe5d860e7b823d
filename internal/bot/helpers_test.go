package bot

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"referat-bot/internal/config"
	"referat-bot/internal/database"
	"referat-bot/internal/models"
	"referat-bot/internal/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sentMessage - одно отправленное ботом сообщение
type sentMessage struct {
	chatID int64
	text   string
}

// stubTelegram записывает отправленные сообщения вместо похода в API
type stubTelegram struct {
	mu      sync.Mutex
	sent    []sentMessage
	deleted []int
	failFor map[int64]bool
	nextID  int
}

func newStubTelegram() *stubTelegram {
	return &stubTelegram{failFor: make(map[int64]bool)}
}

func (t *stubTelegram) record(chatID int64, text string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failFor[chatID] {
		return 0, errors.New("telegram: forbidden")
	}
	t.sent = append(t.sent, sentMessage{chatID: chatID, text: text})
	t.nextID++
	return t.nextID, nil
}

func (t *stubTelegram) SendMessage(chatID int64, text string) error {
	_, err := t.record(chatID, text)
	return err
}

func (t *stubTelegram) SendHTMLMessage(chatID int64, text string) (int, error) {
	return t.record(chatID, text)
}

func (t *stubTelegram) SendMessageWithKeyboard(chatID int64, text string, _ tgbotapi.ReplyKeyboardMarkup) (int, error) {
	return t.record(chatID, text)
}

func (t *stubTelegram) SendMessageWithInlineKeyboard(chatID int64, text string, _ tgbotapi.InlineKeyboardMarkup) (int, error) {
	return t.record(chatID, text)
}

func (t *stubTelegram) EditMessageText(chatID int64, _ int, text string, _ *tgbotapi.InlineKeyboardMarkup) error {
	_, err := t.record(chatID, text)
	return err
}

func (t *stubTelegram) DeleteMessage(_ int64, messageID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleted = append(t.deleted, messageID)
	return nil
}

func (t *stubTelegram) AnswerCallback(_ string, _ string, _ bool) error {
	return nil
}

func (t *stubTelegram) GetChatUsername(_ int64) (string, error) {
	return "some_admin", nil
}

func (t *stubTelegram) StartBot() (chan models.Message, chan models.CallbackQuery, error) {
	return make(chan models.Message), make(chan models.CallbackQuery), nil
}

// deletedIDs возвращает набор удаленных ботом сообщений
func (t *stubTelegram) deletedIDs() map[int]bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make(map[int]bool, len(t.deleted))
	for _, id := range t.deleted {
		ids[id] = true
	}
	return ids
}

// messagesFor возвращает тексты, доставленные в конкретный чат
func (t *stubTelegram) messagesFor(chatID int64) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var texts []string
	for _, m := range t.sent {
		if m.chatID == chatID {
			texts = append(texts, m.text)
		}
	}
	return texts
}

// stubOrderStore держит заказы в памяти
type stubOrderStore struct {
	mu         sync.Mutex
	orders     map[int64]models.Order
	nextID     int64
	countSince int
	createErr  error
	updateErr  error
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{orders: make(map[int64]models.Order)}
}

func (s *stubOrderStore) CreateOrder(order models.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	order.ID = s.nextID
	s.orders[order.ID] = order
	return order.ID, nil
}

func (s *stubOrderStore) GetOrders(status models.OrderStatus) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Order
	for id := int64(1); id <= s.nextID; id++ {
		order, ok := s.orders[id]
		if !ok {
			continue
		}
		if status == "" || order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

func (s *stubOrderStore) GetOrderByID(orderID int64) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, database.ErrOrderNotFound
	}
	return order, nil
}

func (s *stubOrderStore) GetRecentOrders(limit int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Order
	for id := s.nextID; id >= 1 && len(result) < limit; id-- {
		if order, ok := s.orders[id]; ok {
			result = append(result, order)
		}
	}
	return result, nil
}

func (s *stubOrderStore) CountOrdersSince(_ int64, _ time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countSince, nil
}

func (s *stubOrderStore) UpdateOrderStatus(orderID int64, status models.OrderStatus, confirmedBy int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	order, ok := s.orders[orderID]
	if !ok {
		return database.ErrOrderNotFound
	}
	order.Status = status
	if confirmedBy != 0 {
		order.ConfirmedBy = confirmedBy
	}
	s.orders[orderID] = order
	return nil
}

func (s *stubOrderStore) SumTotalByStatus(status models.OrderStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum int64
	for _, order := range s.orders {
		if order.Status == status {
			sum += order.TotalPrice
		}
	}
	return sum, nil
}

// stubUserStore держит пользователей в памяти
type stubUserStore struct {
	mu    sync.Mutex
	users map[int64]string
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[int64]string)}
}

func (s *stubUserStore) CreateUser(telegramID int64, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[telegramID]; ok {
		return false, nil
	}
	s.users[telegramID] = username
	return true, nil
}

func (s *stubUserStore) UpdateLastActive(_ int64) error {
	return nil
}

func (s *stubUserStore) CountUsers() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

// Идентификаторы участников тестовых сценариев
const (
	testAdminID      = int64(100)
	testOtherAdminID = int64(200)
	testUserID       = int64(555)
)

func testSettings(t *testing.T) *settings.Service {
	t.Helper()

	svc, err := settings.Load(
		filepath.Join(t.TempDir(), "settings.yaml"),
		[]int64{testAdminID, testOtherAdminID},
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("не удалось создать настройки: %v", err)
	}
	return svc
}

// testEnv - собранный бот на стабах
type testEnv struct {
	telegram     *stubTelegram
	orders       *stubOrderStore
	users        *stubUserStore
	settings     *settings.Service
	reminders    *ReminderService
	orderService *OrderService
	bot          *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	telegram := newStubTelegram()
	orders := newStubOrderStore()
	users := newStubUserStore()
	settingsService := testSettings(t)
	logger := zap.NewNop()

	cfg := config.Telegram{
		AdminUsername: "test_admin",
		AdminPhone:    "+998900000000",
		CardNumber:    "8600 0000 0000 0000",
		CardOwner:     "Test Owner",
	}

	notifier := NewNotifier(telegram, settingsService, logger, cfg)
	reminders := NewReminderService(orders, telegram, logger, cfg.AdminUsername)
	orderService := NewOrderService(orders, users, notifier, reminders, logger)

	botService := NewService(telegram, logger, settingsService, users, orders, orderService, notifier, cfg)

	return &testEnv{
		telegram:     telegram,
		orders:       orders,
		users:        users,
		settings:     settingsService,
		reminders:    reminders,
		orderService: orderService,
		bot:          botService,
	}
}

// submitTestOrder оформляет заказ и возвращает его из хранилища
func (env *testEnv) submitTestOrder(t *testing.T) models.Order {
	t.Helper()

	order, err := env.orderService.Submit(models.Order{
		UserID:   testUserID,
		UserName: "Aziz",
		Username: "aziz_99",
		Service:  "📜 Referat",
		Subject:  "Iqtisodiyot asoslari",
		Pages:    10,
		Price:    5000,
		Deadline: "31.12.2099",
	})
	if err != nil {
		t.Fatalf("не удалось оформить заказ: %v", err)
	}
	return order
}
