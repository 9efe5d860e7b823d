package bot

import (
	"fmt"

	"referat-bot/internal/models"
	"referat-bot/internal/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Подписи кнопок. Совпадение текста входящего сообщения с подписью -
// единственный способ узнать, что нажата reply-кнопка.
const (
	btnOtherServices = "🔠 Boshqa xizmatlar"
	btnContactAdmin  = "📞 Admin bilan bog'lanish"
	btnBack          = "🔙 Ortga"
	btnCancel        = "❌ Bekor"
	btnSendContact   = "📱 Kontaktni yuborish"
	btnSkipPhone     = "➡️ O'tkazib yuborish"
	btnEditSubject   = "📌 Mavzu"
	btnEditPages     = "📄 Varaq"
	btnEditDeadline  = "⏳ Deadline"
	btnEditPhone     = "📞 Telefon"
)

// Данные инлайн-кнопок
const (
	cbDeadlineToday  = "deadline_today"
	cbDeadline3Days  = "deadline_3days"
	cbDeadline1Week  = "deadline_1week"
	cbDeadlineCustom = "deadline_custom"
	cbConfirmOrder   = "confirm_order"
	cbEditOrder      = "edit_order"
	cbCancelOrder    = "cancel_order"

	cbViewOrders   = "view_orders"
	cbViewUsers    = "view_users"
	cbStats        = "stats"
	cbOrderHistory = "order_history"
	cbManagePrices = "manage_prices"
	cbManageAdmins = "manage_admins"
	cbBackToPanel  = "back_to_panel"
	cbAddAdmin     = "add_admin"

	cbPrefixFilter      = "filter_"
	cbPrefixDetails     = "details_"
	cbPrefixEditPrice   = "edit_price_"
	cbPrefixRemoveAdmin = "remove_admin_"
	cbPrefixAccept      = "accept_"
	cbPrefixReject      = "reject_"
	cbPrefixComplete    = "complete_"
	cbPrefixSend        = "send_"
)

// mainMenuKeyboard - главное меню: услуги из прайс-листа, свободный
// ввод и контакт админа
func mainMenuKeyboard(services []settings.ServicePrice) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton

	for _, svc := range services {
		row = append(row, tgbotapi.NewKeyboardButton(svc.Name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButton(btnOtherServices),
		tgbotapi.NewKeyboardButton(btnContactAdmin),
	})

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// stepMenuKeyboard - кнопки "назад" и "отмена" для промежуточных шагов
func stepMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// phoneMenuKeyboard - шаг телефона: поделиться контактом, пропустить
// или отменить
func phoneMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(btnSendContact),
			tgbotapi.NewKeyboardButton(btnSkipPhone),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// deadlineKeyboard - готовые варианты срока плюс свой вариант
func deadlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Bugun", cbDeadlineToday),
			tgbotapi.NewInlineKeyboardButtonData("📅 3 kun", cbDeadline3Days),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 1 hafta", cbDeadline1Week),
			tgbotapi.NewInlineKeyboardButtonData("⌨️ Boshqa sana", cbDeadlineCustom),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnCancel, cbCancelOrder),
		),
	)
}

// editKeyboard - выбор поля для правки перед подтверждением
func editKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEditSubject),
			tgbotapi.NewKeyboardButton(btnEditPages),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEditDeadline),
			tgbotapi.NewKeyboardButton(btnEditPhone),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// confirmKeyboard - подтверждение, правка или отмена заказа
func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Tasdiqlash", cbConfirmOrder),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Tahrirlash", cbEditOrder),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnCancel, cbCancelOrder),
		),
	)
}

// adminPanelKeyboard - разделы админской панели
func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Buyurtmalar", cbViewOrders),
			tgbotapi.NewInlineKeyboardButtonData("👥 Foydalanuvchilar", cbViewUsers),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistika", cbStats),
			tgbotapi.NewInlineKeyboardButtonData("🕒 Tarix", cbOrderHistory),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Narxlar", cbManagePrices),
			tgbotapi.NewInlineKeyboardButtonData("👨‍💻 Adminlar", cbManageAdmins),
		),
	)
}

// orderListKeyboard - фильтры списка заказов
func orderListKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Jarayonda", cbPrefixFilter+"pending"),
			tgbotapi.NewInlineKeyboardButtonData("✅ Qabul qilingan", cbPrefixFilter+"accepted"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Rad etilgan", cbPrefixFilter+"rejected"),
			tgbotapi.NewInlineKeyboardButtonData("✔️ Bajarilgan", cbPrefixFilter+"completed"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Hammasi", cbPrefixFilter+"all"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Panel", cbBackToPanel),
		),
	)
}

// orderActionsKeyboard - действия над заказом в карточке: переходы
// статуса по текущему состоянию плюс связь с заказчиком
func orderActionsKeyboard(order models.Order) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch order.Status {
	case models.OrderStatusPending:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Qabul", fmt.Sprintf("%s%d", cbPrefixAccept, order.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Rad etish", fmt.Sprintf("%s%d", cbPrefixReject, order.ID)),
		))
	case models.OrderStatusAccepted:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✔️ Bajarildi", fmt.Sprintf("%s%d", cbPrefixComplete, order.ID)),
		))
	}

	if order.Status == models.OrderStatusPending || order.Status == models.OrderStatusAccepted {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📩 Xabar", fmt.Sprintf("%s%d", cbPrefixSend, order.ID)),
		))
	}

	contactURL := fmt.Sprintf("tg://user?id=%d", order.UserID)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL("💬 Bog'lanish", contactURL),
		tgbotapi.NewInlineKeyboardButtonData("🔙 Buyurtmalar", cbViewOrders),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// newOrderKeyboard - кнопки принять/отклонить в уведомлении о новом заказе
func newOrderKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Qabul", fmt.Sprintf("%s%d", cbPrefixAccept, orderID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Rad etish", fmt.Sprintf("%s%d", cbPrefixReject, orderID)),
		),
	)
}

// backKeyboard - одна кнопка возврата на безопасный экран
func backKeyboard(label, data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		),
	)
}
