package bot

import (
	"errors"
	"strings"
	"testing"

	"referat-bot/internal/models"
)

func TestSubmitComputesTotalPrice(t *testing.T) {
	env := newTestEnv(t)

	order := env.submitTestOrder(t)

	if order.TotalPrice != 50000 {
		t.Errorf("итоговая цена = %d, ожидалось 50000", order.TotalPrice)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("статус = %q, ожидался %q", order.Status, models.OrderStatusPending)
	}

	stored, err := env.orders.GetOrderByID(order.ID)
	if err != nil {
		t.Fatalf("заказ не сохранен: %v", err)
	}
	if stored.TotalPrice != 50000 {
		t.Errorf("в хранилище итоговая цена = %d, ожидалось 50000", stored.TotalPrice)
	}
}

func TestSubmitNotifiesAllAdmins(t *testing.T) {
	env := newTestEnv(t)

	env.submitTestOrder(t)

	for _, adminID := range []int64{testAdminID, testOtherAdminID} {
		msgs := env.telegram.messagesFor(adminID)
		if len(msgs) != 1 {
			t.Fatalf("админ %d получил %d сообщений, ожидалось 1", adminID, len(msgs))
		}
		if !strings.Contains(msgs[0], "Yangi buyurtma") {
			t.Errorf("уведомление админа %d не содержит текста о новом заказе: %q", adminID, msgs[0])
		}
	}
}

func TestSubmitRateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.orders.countSince = 5

	_, err := env.orderService.Submit(models.Order{UserID: testUserID, Pages: 10, Price: 5000})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("ошибка = %v, ожидалась ErrRateLimited", err)
	}

	if len(env.orders.orders) != 0 {
		t.Error("заказ не должен сохраняться при превышении лимита")
	}
}

func TestSubmitUnderLimitBoundary(t *testing.T) {
	env := newTestEnv(t)
	env.orders.countSince = 4

	if _, err := env.orderService.Submit(models.Order{UserID: testUserID, Pages: 10, Price: 5000}); err != nil {
		t.Fatalf("четыре заказа в окне не должны блокировать пятый: %v", err)
	}
}

func TestAcceptRecordsConfirmingAdmin(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	accepted, err := env.orderService.Accept(order.ID, testAdminID, "admin_one")
	if err != nil {
		t.Fatalf("не удалось принять заказ: %v", err)
	}
	if accepted.Status != models.OrderStatusAccepted {
		t.Errorf("статус = %q, ожидался %q", accepted.Status, models.OrderStatusAccepted)
	}
	if accepted.ConfirmedBy != testAdminID {
		t.Errorf("принявший админ = %d, ожидался %d", accepted.ConfirmedBy, testAdminID)
	}

	stored, _ := env.orders.GetOrderByID(order.ID)
	if stored.ConfirmedBy != testAdminID {
		t.Errorf("в хранилище принявший админ = %d, ожидался %d", stored.ConfirmedBy, testAdminID)
	}
}

func TestAcceptSendsPaymentDetailsToUser(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Accept(order.ID, testAdminID, "admin_one"); err != nil {
		t.Fatalf("не удалось принять заказ: %v", err)
	}

	msgs := env.telegram.messagesFor(testUserID)
	if len(msgs) != 1 {
		t.Fatalf("заказчик получил %d сообщений, ожидалось 1", len(msgs))
	}
	if !strings.Contains(msgs[0], "8600 0000 0000 0000") {
		t.Errorf("сообщение заказчику не содержит номер карты: %q", msgs[0])
	}
	// 50% от 50000
	if !strings.Contains(msgs[0], "25,000") {
		t.Errorf("сообщение заказчику не содержит сумму аванса: %q", msgs[0])
	}
}

func TestAcceptNotifiesOnlyOtherAdmins(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	beforeSelf := len(env.telegram.messagesFor(testAdminID))
	beforeOther := len(env.telegram.messagesFor(testOtherAdminID))

	if _, err := env.orderService.Accept(order.ID, testAdminID, "admin_one"); err != nil {
		t.Fatalf("не удалось принять заказ: %v", err)
	}

	if got := len(env.telegram.messagesFor(testAdminID)); got != beforeSelf {
		t.Error("принявший админ не должен получать отметку о разборе")
	}
	if got := len(env.telegram.messagesFor(testOtherAdminID)); got != beforeOther+1 {
		t.Error("остальные админы должны получить отметку о разборе")
	}
}

func TestAcceptOnlyFromPending(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Accept(order.ID, testAdminID, "admin_one"); err != nil {
		t.Fatalf("не удалось принять заказ: %v", err)
	}

	if _, err := env.orderService.Accept(order.ID, testOtherAdminID, "admin_two"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("повторное принятие: ошибка = %v, ожидалась ErrIllegalTransition", err)
	}

	stored, _ := env.orders.GetOrderByID(order.ID)
	if stored.ConfirmedBy != testAdminID {
		t.Errorf("принявший админ = %d, не должен меняться", stored.ConfirmedBy)
	}
}

func TestRejectOnlyFromPending(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Accept(order.ID, testAdminID, "admin_one"); err != nil {
		t.Fatalf("не удалось принять заказ: %v", err)
	}

	if _, err := env.orderService.Reject(order.ID, "band emasmiz"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("отклонение принятого заказа: ошибка = %v, ожидалась ErrIllegalTransition", err)
	}
}

func TestRejectDeliversReason(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Reject(order.ID, "muddat juda qisqa"); err != nil {
		t.Fatalf("не удалось отклонить заказ: %v", err)
	}

	msgs := env.telegram.messagesFor(testUserID)
	if len(msgs) != 1 {
		t.Fatalf("заказчик получил %d сообщений, ожидалось 1", len(msgs))
	}
	if !strings.Contains(msgs[0], "muddat juda qisqa") {
		t.Errorf("сообщение заказчику не содержит причину отказа: %q", msgs[0])
	}

	stored, _ := env.orders.GetOrderByID(order.ID)
	if stored.Status != models.OrderStatusRejected {
		t.Errorf("статус = %q, ожидался %q", stored.Status, models.OrderStatusRejected)
	}
}

func TestCompleteOnlyByAcceptingAdmin(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Accept(order.ID, testAdminID, "admin_one"); err != nil {
		t.Fatalf("не удалось принять заказ: %v", err)
	}

	if _, err := env.orderService.Complete(order.ID, testOtherAdminID, "admin_two"); !errors.Is(err, ErrWrongAdmin) {
		t.Fatalf("завершение чужим админом: ошибка = %v, ожидалась ErrWrongAdmin", err)
	}

	completed, err := env.orderService.Complete(order.ID, testAdminID, "admin_one")
	if err != nil {
		t.Fatalf("не удалось завершить заказ: %v", err)
	}
	if completed.Status != models.OrderStatusCompleted {
		t.Errorf("статус = %q, ожидался %q", completed.Status, models.OrderStatusCompleted)
	}

	stored, _ := env.orders.GetOrderByID(order.ID)
	if stored.ConfirmedBy != testAdminID {
		t.Errorf("принявший админ = %d, должен сохраниться после завершения", stored.ConfirmedBy)
	}
}

func TestCompleteOnlyFromAccepted(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Complete(order.ID, testAdminID, "admin_one"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("завершение из ожидания: ошибка = %v, ожидалась ErrIllegalTransition", err)
	}
}

func TestAcceptSurvivesNotificationFailure(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	// Заказчик заблокировал бота
	env.telegram.failFor[testUserID] = true

	if _, err := env.orderService.Accept(order.ID, testAdminID, "admin_one"); err != nil {
		t.Fatalf("ошибка доставки не должна ломать переход статуса: %v", err)
	}

	stored, _ := env.orders.GetOrderByID(order.ID)
	if stored.Status != models.OrderStatusAccepted {
		t.Errorf("статус = %q, ожидался %q", stored.Status, models.OrderStatusAccepted)
	}
}

func TestSendUserMessage(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.SendUserMessage(order.ID, "ishingiz boshlanmoqda"); err != nil {
		t.Fatalf("не удалось отправить сообщение: %v", err)
	}

	msgs := env.telegram.messagesFor(testUserID)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "ishingiz boshlanmoqda") {
		t.Errorf("заказчик не получил текст админа: %v", msgs)
	}
}

func TestSendUserMessageRejectedOrder(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	if _, err := env.orderService.Reject(order.ID, "sabab"); err != nil {
		t.Fatalf("не удалось отклонить заказ: %v", err)
	}

	if _, err := env.orderService.SendUserMessage(order.ID, "salom"); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("сообщение по отклоненному заказу: ошибка = %v, ожидалась ErrIllegalTransition", err)
	}
}

func TestSendUserMessageDeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	order := env.submitTestOrder(t)

	env.telegram.failFor[testUserID] = true

	if _, err := env.orderService.SendUserMessage(order.ID, "salom"); err == nil {
		t.Fatal("админ должен узнать о недоставленном сообщении")
	}
}

func TestCollectStats(t *testing.T) {
	env := newTestEnv(t)

	first := env.submitTestOrder(t)
	second := env.submitTestOrder(t)
	third := env.submitTestOrder(t)
	env.submitTestOrder(t)

	if _, err := env.orderService.Accept(first.ID, testAdminID, "admin_one"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.orderService.Reject(second.ID, "sabab"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.orderService.Accept(third.ID, testAdminID, "admin_one"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.orderService.Complete(third.ID, testAdminID, "admin_one"); err != nil {
		t.Fatal(err)
	}

	env.users.CreateUser(testUserID, "aziz_99")

	stats, err := env.orderService.CollectStats()
	if err != nil {
		t.Fatalf("не удалось собрать статистику: %v", err)
	}

	if stats.TotalUsers != 1 {
		t.Errorf("пользователей = %d, ожидалось 1", stats.TotalUsers)
	}
	if stats.TotalOrders != 4 {
		t.Errorf("заказов = %d, ожидалось 4", stats.TotalOrders)
	}
	// Принят только первый заказ, 50000
	if stats.AcceptedIncome != 50000 {
		t.Errorf("сумма принятых = %d, ожидалось 50000", stats.AcceptedIncome)
	}
	if stats.RejectedOrders != 1 {
		t.Errorf("отклоненных = %d, ожидалось 1", stats.RejectedOrders)
	}
	if stats.CompletedOrders != 1 {
		t.Errorf("выполненных = %d, ожидалось 1", stats.CompletedOrders)
	}
}
