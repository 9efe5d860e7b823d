package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"referat-bot/internal/database"
	"referat-bot/internal/models"
	"referat-bot/internal/settings"
	"referat-bot/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const serverErrorText = "⚠️ <b>Serverda xatolik yuz berdi, keyinroq urinib ko'ring!</b>"

// showAdminPanel - вход в админскую панель по /admin или кнопке возврата
func (s *Service) showAdminPanel(chatID int64, sess *Session) {
	sess.Step = StepService
	sess.Admin = AdminContext{}
	s.replaceMessage(chatID, sess, "👨‍💻 <b>Admin paneli:</b>", adminPanelKeyboard())
}

// handleAdminCallback разводит нажатия кнопок панели. Право доступа
// проверяется на каждом нажатии: роль могли отозвать после того, как
// панель была открыта.
func (s *Service) handleAdminCallback(cb models.CallbackQuery, sess *Session) {
	if !s.settings.IsAdmin(cb.UserID) {
		s.answerCallback(cb.ID, "⚠️ Sizda admin huquqi yo'q!", true)
		return
	}

	switch {
	case cb.Data == cbBackToPanel:
		s.showAdminPanel(cb.ChatID, sess)
		s.answerCallback(cb.ID, "", false)

	case cb.Data == cbViewOrders:
		s.showOrders(cb.ChatID, sess, "")
		s.answerCallback(cb.ID, "", false)

	case strings.HasPrefix(cb.Data, cbPrefixFilter):
		s.showOrders(cb.ChatID, sess, filterStatus(strings.TrimPrefix(cb.Data, cbPrefixFilter)))
		s.answerCallback(cb.ID, "", false)

	case strings.HasPrefix(cb.Data, cbPrefixDetails):
		s.showOrderDetails(cb, strings.TrimPrefix(cb.Data, cbPrefixDetails), sess)

	case cb.Data == cbViewUsers:
		s.showUsers(cb.ChatID, sess)
		s.answerCallback(cb.ID, "", false)

	case cb.Data == cbStats:
		s.showStats(cb.ChatID, sess)
		s.answerCallback(cb.ID, "", false)

	case cb.Data == cbOrderHistory:
		s.showOrderHistory(cb.ChatID, sess)
		s.answerCallback(cb.ID, "", false)

	case cb.Data == cbManagePrices:
		s.showPrices(cb.ChatID, sess)
		s.answerCallback(cb.ID, "", false)

	case strings.HasPrefix(cb.Data, cbPrefixEditPrice):
		s.promptEditPrice(cb, strings.TrimPrefix(cb.Data, cbPrefixEditPrice), sess)

	case cb.Data == cbManageAdmins:
		s.showAdmins(cb.ChatID, sess)
		s.answerCallback(cb.ID, "", false)

	case cb.Data == cbAddAdmin:
		sess.Step = StepAdminAddAdmin
		s.replaceMessage(cb.ChatID, sess,
			"👨‍💻 <b>Yangi admin qo'shish:</b>\n<i>Telegram ID raqamini kiriting:</i>",
			backKeyboard("🔙 Adminlar", cbManageAdmins))
		s.answerCallback(cb.ID, "", false)

	case strings.HasPrefix(cb.Data, cbPrefixRemoveAdmin):
		s.removeAdmin(cb, strings.TrimPrefix(cb.Data, cbPrefixRemoveAdmin), sess)

	case strings.HasPrefix(cb.Data, cbPrefixAccept):
		s.acceptOrder(cb, strings.TrimPrefix(cb.Data, cbPrefixAccept), sess)

	case strings.HasPrefix(cb.Data, cbPrefixReject):
		s.promptRejectReason(cb, strings.TrimPrefix(cb.Data, cbPrefixReject), sess)

	case strings.HasPrefix(cb.Data, cbPrefixComplete):
		s.completeOrder(cb, strings.TrimPrefix(cb.Data, cbPrefixComplete), sess)

	case strings.HasPrefix(cb.Data, cbPrefixSend):
		s.promptUserMessage(cb, strings.TrimPrefix(cb.Data, cbPrefixSend), sess)

	default:
		s.answerCallback(cb.ID, "", false)
	}
}

func filterStatus(key string) models.OrderStatus {
	switch key {
	case "pending":
		return models.OrderStatusPending
	case "accepted":
		return models.OrderStatusAccepted
	case "rejected":
		return models.OrderStatusRejected
	case "completed":
		return models.OrderStatusCompleted
	default:
		return ""
	}
}

// showOrders выводит список заказов с выбранным статусом.
// Пустой статус означает все заказы.
func (s *Service) showOrders(chatID int64, sess *Session, status models.OrderStatus) {
	// Инлайн-возврат на список обрывает незавершенный ввод
	sess.Step = StepService
	sess.Admin = AdminContext{}

	orders, err := s.orders.GetOrders(status)
	if err != nil {
		s.logger.Error("Ошибка при получении списка заказов", zap.Error(err))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	if len(orders) == 0 {
		s.replaceMessage(chatID, sess,
			"📋 <b>Buyurtmalar:</b>\n<i>Bu holatda buyurtma yo'q.</i>", orderListKeyboard())
		return
	}

	var b strings.Builder
	b.WriteString("📋 <b>Buyurtmalar:</b>\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "%s <b>#%d</b> - %s, %s so'm, %s\n",
			order.Status.Emoji(),
			order.ID,
			utils.EscapeHTML(order.Service),
			utils.FormatPrice(order.TotalPrice),
			order.Deadline,
		)
	}
	b.WriteString("<i>Batafsil uchun raqamni tanlang:</i>")

	markup := orderListKeyboard()
	markup.InlineKeyboard = append(detailButtons(orders), markup.InlineKeyboard...)
	s.replaceMessage(chatID, sess, b.String(), markup)
}

// detailButtons - ряды кнопок "#id" по 3 в ряд
func detailButtons(orders []models.Order) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, order := range orders {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("#%d", order.ID),
			fmt.Sprintf("%s%d", cbPrefixDetails, order.ID),
		))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return rows
}

// showOrderDetails - карточка заказа с действиями по текущему статусу
func (s *Service) showOrderDetails(cb models.CallbackQuery, rawID string, sess *Session) {
	order, ok := s.lookupOrder(cb, rawID)
	if !ok {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Buyurtma #%d:</b>\n", order.ID)
	fmt.Fprintf(&b, "%s Holat: <b>%s</b>\n", order.Status.Emoji(), order.Status)
	fmt.Fprintf(&b, "👤 Mijoz: <i>%s</i>", utils.EscapeHTML(displayName(order.UserName)))
	if order.Username != "" {
		fmt.Fprintf(&b, " (@%s)", utils.EscapeHTML(order.Username))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "📞 Telefon: <i>%s</i>\n", phoneOrDash(order.Phone))
	fmt.Fprintf(&b, "🌟 Xizmat: <i>%s</i>\n", utils.EscapeHTML(order.Service))
	fmt.Fprintf(&b, "📌 Mavzu: <i>%s</i>\n", utils.EscapeHTML(order.Subject))
	fmt.Fprintf(&b, "📄 Varaq: <i>%d ta</i>\n", order.Pages)
	fmt.Fprintf(&b, "💵 Jami: <b>%s</b> so'm\n", utils.FormatPrice(order.TotalPrice))
	fmt.Fprintf(&b, "⏳ Deadline: <i>%s</i>\n", order.Deadline)
	fmt.Fprintf(&b, "🕒 Berilgan: <i>%s</i>\n", order.CreatedAt.In(tashkent).Format("02.01.2006 15:04"))

	if order.ConfirmedBy != 0 {
		admin := s.resolveAdminName(order.ConfirmedBy)
		fmt.Fprintf(&b, "👨‍💻 Qabul qilgan: <i>%s</i>\n", utils.EscapeHTML(admin))
	}

	s.replaceMessage(cb.ChatID, sess, b.String(), orderActionsKeyboard(order))
	s.answerCallback(cb.ID, "", false)
}

// resolveAdminName спрашивает у Telegram имя чата админа; при ошибке
// показываем хотя бы ID
func (s *Service) resolveAdminName(adminID int64) string {
	username, err := s.telegram.GetChatUsername(adminID)
	if err != nil || username == "" {
		return fmt.Sprintf("ID %d", adminID)
	}
	return "@" + username
}

func (s *Service) showUsers(chatID int64, sess *Session) {
	total, err := s.users.CountUsers()
	if err != nil {
		s.logger.Error("Ошибка при подсчете пользователей", zap.Error(err))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	text := fmt.Sprintf("👥 <b>Foydalanuvchilar:</b>\n📊 Jami: <b>%d ta</b>", total)
	s.replaceMessage(chatID, sess, text, backKeyboard("🔙 Panel", cbBackToPanel))
}

func (s *Service) showStats(chatID int64, sess *Session) {
	stats, err := s.orderService.CollectStats()
	if err != nil {
		s.logger.Error("Ошибка при сборе статистики", zap.Error(err))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	text := fmt.Sprintf(
		"📊 <b>Statistika:</b>\n"+
			"👥 Foydalanuvchilar: <b>%d ta</b>\n"+
			"📋 Buyurtmalar: <b>%d ta</b>\n"+
			"💵 Qabul qilingan summa: <b>%s</b> so'm\n"+
			"❌ Rad etilgan: <b>%d ta</b>\n"+
			"✔️ Bajarilgan: <b>%d ta</b>",
		stats.TotalUsers,
		stats.TotalOrders,
		utils.FormatPrice(stats.AcceptedIncome),
		stats.RejectedOrders,
		stats.CompletedOrders,
	)
	s.replaceMessage(chatID, sess, text, backKeyboard("🔙 Panel", cbBackToPanel))
}

// showOrderHistory - последние 10 заказов от новых к старым
func (s *Service) showOrderHistory(chatID int64, sess *Session) {
	orders, err := s.orders.GetRecentOrders(10)
	if err != nil {
		s.logger.Error("Ошибка при получении истории заказов", zap.Error(err))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	if len(orders) == 0 {
		s.replaceMessage(chatID, sess,
			"🕒 <b>Tarix:</b>\n<i>Hali buyurtma yo'q.</i>", backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	var b strings.Builder
	b.WriteString("🕒 <b>Oxirgi buyurtmalar:</b>\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "%s <b>#%d</b> - %s, %s\n",
			order.Status.Emoji(),
			order.ID,
			utils.EscapeHTML(order.Service),
			order.CreatedAt.In(tashkent).Format("02.01.2006"),
		)
	}

	rows := detailButtons(orders)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Panel", cbBackToPanel),
	))
	s.replaceMessage(chatID, sess, b.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// showPrices - прайс-лист с кнопками правки по каждой услуге
func (s *Service) showPrices(chatID int64, sess *Session) {
	sess.Step = StepService
	sess.Admin = AdminContext{}

	services := s.settings.Services()

	var b strings.Builder
	b.WriteString("💰 <b>Narxlar:</b>\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, svc := range services {
		fmt.Fprintf(&b, "%s - <b>%s</b> so'm/varaq (min %d ta)\n",
			utils.EscapeHTML(svc.Name), utils.FormatPrice(svc.Price), svc.MinPages)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+svc.Name, cbPrefixEditPrice+svc.Name),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Panel", cbBackToPanel),
	))

	s.replaceMessage(chatID, sess, b.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (s *Service) promptEditPrice(cb models.CallbackQuery, service string, sess *Session) {
	price, _ := s.settings.LookupService(service)

	sess.Step = StepAdminEditPrice
	sess.Admin.Service = service

	text := fmt.Sprintf(
		"💰 <b>%s</b>\nJoriy narx: <b>%s</b> so'm/varaq\n✍️ <i>Yangi narxni kiriting:</i>",
		utils.EscapeHTML(service), utils.FormatPrice(price))
	s.replaceMessage(cb.ChatID, sess, text, backKeyboard("🔙 Narxlar", cbManagePrices))
	s.answerCallback(cb.ID, "", false)
}

// showAdmins - список админов с кнопками удаления
func (s *Service) showAdmins(chatID int64, sess *Session) {
	sess.Step = StepService
	sess.Admin = AdminContext{}

	admins := s.settings.Admins()

	var b strings.Builder
	b.WriteString("👨‍💻 <b>Adminlar:</b>\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, id := range admins {
		fmt.Fprintf(&b, "• <code>%d</code> - %s\n", id, utils.EscapeHTML(s.resolveAdminName(id)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %d", id),
				fmt.Sprintf("%s%d", cbPrefixRemoveAdmin, id),
			),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Admin qo'shish", cbAddAdmin),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Panel", cbBackToPanel),
		),
	)

	s.replaceMessage(chatID, sess, b.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (s *Service) removeAdmin(cb models.CallbackQuery, rawID string, sess *Session) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.answerCallback(cb.ID, "", false)
		return
	}

	if err := s.settings.RemoveAdmin(id); err != nil {
		if errors.Is(err, settings.ErrLastAdmin) {
			s.answerCallback(cb.ID, "⚠️ Oxirgi adminni o'chirib bo'lmaydi!", true)
			return
		}
		s.logger.Error("Ошибка при удалении админа", zap.Error(err), zap.Int64("admin_id", id))
		s.answerCallback(cb.ID, "⚠️ Serverda xatolik yuz berdi!", true)
		return
	}

	s.answerCallback(cb.ID, "✅ Admin o'chirildi!", false)
	s.showAdmins(cb.ChatID, sess)
}

// lookupOrder достает заказ по callback data; отсутствие заказа
// показывается алертом
func (s *Service) lookupOrder(cb models.CallbackQuery, rawID string) (models.Order, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.answerCallback(cb.ID, "", false)
		return models.Order{}, false
	}

	order, err := s.orders.GetOrderByID(id)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			s.answerCallback(cb.ID, "⚠️ Buyurtma topilmadi!", true)
			return models.Order{}, false
		}
		s.logger.Error("Ошибка при получении заказа", zap.Error(err), zap.Int64("order_id", id))
		s.answerCallback(cb.ID, "⚠️ Serverda xatolik yuz berdi!", true)
		return models.Order{}, false
	}

	return order, true
}

// acceptOrder - кнопка "Qabul" в уведомлении или карточке заказа
func (s *Service) acceptOrder(cb models.CallbackQuery, rawID string, sess *Session) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.answerCallback(cb.ID, "", false)
		return
	}

	order, err := s.orderService.Accept(id, cb.UserID, cb.UserLogin)
	if err != nil {
		s.answerOrderActionError(cb, err, id)
		return
	}

	s.answerCallback(cb.ID, fmt.Sprintf("✅ Buyurtma #%d qabul qilindi!", order.ID), false)
	s.showOrderDetails(cb, rawID, sess)
}

func (s *Service) promptRejectReason(cb models.CallbackQuery, rawID string, sess *Session) {
	order, ok := s.lookupOrder(cb, rawID)
	if !ok {
		return
	}
	if order.Status != models.OrderStatusPending {
		s.answerCallback(cb.ID, "⚠️ Buyurtma allaqachon ko'rib chiqilgan!", true)
		return
	}

	sess.Step = StepAdminRejectReason
	sess.Admin.OrderID = order.ID

	text := fmt.Sprintf(
		"❌ <b>Buyurtma #%d rad etilmoqda.</b>\n✍️ <i>Sababini yozing:</i>", order.ID)
	s.replaceMessage(cb.ChatID, sess, text, backKeyboard("🔙 Buyurtmalar", cbViewOrders))
	s.answerCallback(cb.ID, "", false)
}

func (s *Service) completeOrder(cb models.CallbackQuery, rawID string, sess *Session) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.answerCallback(cb.ID, "", false)
		return
	}

	order, err := s.orderService.Complete(id, cb.UserID, cb.UserLogin)
	if err != nil {
		s.answerOrderActionError(cb, err, id)
		return
	}

	s.answerCallback(cb.ID, fmt.Sprintf("✔️ Buyurtma #%d bajarildi!", order.ID), false)
	s.showOrderDetails(cb, rawID, sess)
}

func (s *Service) promptUserMessage(cb models.CallbackQuery, rawID string, sess *Session) {
	order, ok := s.lookupOrder(cb, rawID)
	if !ok {
		return
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusAccepted {
		s.answerCallback(cb.ID, "⚠️ Bu buyurtma bo'yicha yozib bo'lmaydi!", true)
		return
	}

	sess.Step = StepAdminSendMessage
	sess.Admin.OrderID = order.ID

	text := fmt.Sprintf(
		"📩 <b>Buyurtma #%d mijoziga xabar:</b>\n✍️ <i>Matnni yozing:</i>", order.ID)
	s.replaceMessage(cb.ChatID, sess, text, backKeyboard("🔙 Buyurtmalar", cbViewOrders))
	s.answerCallback(cb.ID, "", false)
}

// answerOrderActionError переводит ошибки переходов в алерты
func (s *Service) answerOrderActionError(cb models.CallbackQuery, err error, orderID int64) {
	switch {
	case errors.Is(err, database.ErrOrderNotFound):
		s.answerCallback(cb.ID, "⚠️ Buyurtma topilmadi!", true)
	case errors.Is(err, ErrIllegalTransition):
		s.answerCallback(cb.ID, "⚠️ Buyurtma allaqachon ko'rib chiqilgan!", true)
	case errors.Is(err, ErrWrongAdmin):
		s.answerCallback(cb.ID, "⚠️ Buyurtmani qabul qilgan admin yakunlashi kerak!", true)
	default:
		s.logger.Error("Ошибка при смене статуса заказа",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		s.answerCallback(cb.ID, "⚠️ Serverda xatolik yuz berdi!", true)
	}
}

// handleAdminRejectReason - текст причины отказа
func (s *Service) handleAdminRejectReason(chatID int64, sess *Session, msg models.Message) {
	reason := strings.TrimSpace(msg.Text)
	if reason == "" {
		s.replaceMessage(chatID, sess,
			"⚠️ <b>Sabab bo'sh bo'lmasligi kerak!</b>\n✍️ <i>Sababini yozing:</i>",
			backKeyboard("🔙 Buyurtmalar", cbViewOrders))
		return
	}

	orderID := sess.Admin.OrderID
	sess.Step = StepService
	sess.Admin = AdminContext{}

	order, err := s.orderService.Reject(orderID, reason)
	if err != nil {
		if errors.Is(err, ErrIllegalTransition) {
			s.replaceMessage(chatID, sess,
				"⚠️ <b>Buyurtma allaqachon ko'rib chiqilgan!</b>", backKeyboard("🔙 Panel", cbBackToPanel))
			return
		}
		s.logger.Error("Ошибка при отклонении заказа", zap.Error(err), zap.Int64("order_id", orderID))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	text := fmt.Sprintf("❌ <b>Buyurtma #%d rad etildi.</b>", order.ID)
	s.replaceMessage(chatID, sess, text, backKeyboard("🔙 Panel", cbBackToPanel))
}

// handleAdminSendMessage - текст произвольного сообщения заказчику
func (s *Service) handleAdminSendMessage(chatID int64, sess *Session, msg models.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		s.replaceMessage(chatID, sess,
			"⚠️ <b>Xabar bo'sh bo'lmasligi kerak!</b>\n✍️ <i>Matnni yozing:</i>",
			backKeyboard("🔙 Buyurtmalar", cbViewOrders))
		return
	}

	orderID := sess.Admin.OrderID
	sess.Step = StepService
	sess.Admin = AdminContext{}

	order, err := s.orderService.SendUserMessage(orderID, text)
	if err != nil {
		if errors.Is(err, ErrIllegalTransition) {
			s.replaceMessage(chatID, sess,
				"⚠️ <b>Bu buyurtma bo'yicha yozib bo'lmaydi!</b>", backKeyboard("🔙 Panel", cbBackToPanel))
			return
		}
		s.logger.Error("Не удалось доставить сообщение заказчику",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
		s.replaceMessage(chatID, sess,
			"⚠️ <b>Xabar yetkazilmadi!</b>\n<i>Mijoz botni bloklagan bo'lishi mumkin.</i>",
			backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	confirmation := fmt.Sprintf("✅ <b>Xabar buyurtma #%d mijoziga yuborildi!</b>", order.ID)
	s.replaceMessage(chatID, sess, confirmation, backKeyboard("🔙 Panel", cbBackToPanel))
}

// handleAdminEditPrice - новая цена услуги, только число
func (s *Service) handleAdminEditPrice(chatID int64, sess *Session, msg models.Message) {
	price, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil || price <= 0 {
		s.replaceMessage(chatID, sess,
			"⚠️ <b>Faqat musbat raqam kiriting!</b>",
			backKeyboard("🔙 Narxlar", cbManagePrices))
		return
	}

	service := sess.Admin.Service
	sess.Step = StepService
	sess.Admin = AdminContext{}

	if err := s.settings.SetPrice(service, price); err != nil {
		if errors.Is(err, settings.ErrUnknownService) {
			s.replaceMessage(chatID, sess,
				"⚠️ <b>Bunday xizmat topilmadi!</b>", backKeyboard("🔙 Narxlar", cbManagePrices))
			return
		}
		s.logger.Error("Ошибка при сохранении цены", zap.Error(err), zap.String("service", service))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Narxlar", cbManagePrices))
		return
	}

	text := fmt.Sprintf("✅ <b>%s narxi %s so'mga o'zgartirildi!</b>",
		utils.EscapeHTML(service), utils.FormatPrice(price))
	s.replaceMessage(chatID, sess, text, backKeyboard("🔙 Narxlar", cbManagePrices))
}

// handleAdminAddAdmin - ID нового админа, только число
func (s *Service) handleAdminAddAdmin(chatID int64, sess *Session, msg models.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil || id <= 0 {
		s.replaceMessage(chatID, sess,
			"⚠️ <b>Faqat raqam kiriting!</b>\n<i>Telegram ID raqamini yuboring:</i>",
			backKeyboard("🔙 Adminlar", cbManageAdmins))
		return
	}

	sess.Step = StepService
	sess.Admin = AdminContext{}

	added, err := s.settings.AddAdmin(id)
	if err != nil {
		s.logger.Error("Ошибка при добавлении админа", zap.Error(err), zap.Int64("admin_id", id))
		s.replaceMessage(chatID, sess, serverErrorText, backKeyboard("🔙 Panel", cbBackToPanel))
		return
	}

	if !added {
		s.replaceMessage(chatID, sess,
			fmt.Sprintf("⚠️ <b>%d allaqachon admin!</b>", id),
			backKeyboard("🔙 Adminlar", cbManageAdmins))
		return
	}

	s.replaceMessage(chatID, sess,
		fmt.Sprintf("✅ <b>%d admin qilib tayinlandi!</b>", id),
		backKeyboard("🔙 Adminlar", cbManageAdmins))
}
