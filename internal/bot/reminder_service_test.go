package bot

import (
	"strings"
	"testing"
	"time"

	"referat-bot/internal/models"

	"go.uber.org/zap"
)

func newTestReminder(t *testing.T, orders *stubOrderStore, telegram *stubTelegram) *ReminderService {
	t.Helper()

	service := NewReminderService(orders, telegram, zap.NewNop(), "test_admin")
	service.delay = 10 * time.Millisecond
	return service
}

func waitForMessages(t *testing.T, telegram *stubTelegram, chatID int64) []string {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if msgs := telegram.messagesFor(chatID); len(msgs) > 0 {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func TestReminderFiresForPendingOrder(t *testing.T) {
	orders := newStubOrderStore()
	telegram := newStubTelegram()
	reminders := newTestReminder(t, orders, telegram)

	orderID, _ := orders.CreateOrder(models.Order{
		UserID: testUserID,
		Status: models.OrderStatusPending,
	})

	reminders.Schedule(orderID, testUserID)

	msgs := waitForMessages(t, telegram, testUserID)
	if len(msgs) == 0 {
		t.Fatal("напоминание не отправлено")
	}
	if !strings.Contains(msgs[0], "tasdiqlanmadi") {
		t.Errorf("текст напоминания неожиданный: %q", msgs[0])
	}
}

func TestReminderSkipsHandledOrder(t *testing.T) {
	orders := newStubOrderStore()
	telegram := newStubTelegram()
	reminders := newTestReminder(t, orders, telegram)

	orderID, _ := orders.CreateOrder(models.Order{
		UserID: testUserID,
		Status: models.OrderStatusPending,
	})

	reminders.Schedule(orderID, testUserID)

	// Заказ принят до срабатывания таймера
	if err := orders.UpdateOrderStatus(orderID, models.OrderStatusAccepted, testAdminID); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	if msgs := telegram.messagesFor(testUserID); len(msgs) != 0 {
		t.Errorf("по обработанному заказу не должно быть напоминаний: %v", msgs)
	}
}

func TestReminderCancel(t *testing.T) {
	orders := newStubOrderStore()
	telegram := newStubTelegram()
	reminders := newTestReminder(t, orders, telegram)

	orderID, _ := orders.CreateOrder(models.Order{
		UserID: testUserID,
		Status: models.OrderStatusPending,
	})

	reminders.Schedule(orderID, testUserID)
	reminders.Cancel(orderID)

	time.Sleep(100 * time.Millisecond)
	if msgs := telegram.messagesFor(testUserID); len(msgs) != 0 {
		t.Errorf("после отмены напоминание не должно отправляться: %v", msgs)
	}
}

func TestReminderScheduleIsIdempotent(t *testing.T) {
	orders := newStubOrderStore()
	telegram := newStubTelegram()
	reminders := newTestReminder(t, orders, telegram)

	orderID, _ := orders.CreateOrder(models.Order{
		UserID: testUserID,
		Status: models.OrderStatusPending,
	})

	reminders.Schedule(orderID, testUserID)
	reminders.Schedule(orderID, testUserID)

	msgs := waitForMessages(t, telegram, testUserID)
	time.Sleep(50 * time.Millisecond)

	if got := len(telegram.messagesFor(testUserID)); got != 1 {
		t.Errorf("напоминаний = %d, ожидалось 1 (msgs=%v)", got, msgs)
	}
}
