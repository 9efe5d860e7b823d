package bot

import (
	"fmt"

	"referat-bot/internal/config"
	"referat-bot/internal/models"
	"referat-bot/internal/settings"
	"referat-bot/internal/utils"

	"go.uber.org/zap"
)

// Notifier рассылает уведомления заказчику и админам. Каждая доставка
// независима: ошибка по одному получателю логируется и не прерывает
// ни остальные доставки, ни вызвавший их переход статуса.
type Notifier struct {
	telegram TelegramClient
	settings *settings.Service
	logger   *zap.Logger
	cfg      config.Telegram
}

func NewNotifier(telegram TelegramClient, settings *settings.Service, logger *zap.Logger, cfg config.Telegram) *Notifier {
	return &Notifier{
		telegram: telegram,
		settings: settings,
		logger:   logger,
		cfg:      cfg,
	}
}

// NewUser сообщает всем админам о новом пользователе
func (n *Notifier) NewUser(username string, totalUsers int) {
	text := fmt.Sprintf(
		"🆕 <b>Yangi foydalanuvchi:</b> @%s\n👥 <b>Jami:</b> %d",
		utils.EscapeHTML(displayName(username)), totalUsers,
	)

	for _, adminID := range n.settings.Admins() {
		if _, err := n.telegram.SendHTMLMessage(adminID, text); err != nil {
			n.logger.Error("Не удалось уведомить админа о новом пользователе",
				zap.Error(err),
				zap.Int64("admin_id", adminID),
			)
		}
	}
}

// NewOrder сообщает всем админам о новом заказе с кнопками
// принять/отклонить
func (n *Notifier) NewOrder(order models.Order) {
	text := fmt.Sprintf(
		"🚀 <b>Yangi buyurtma!</b>\n"+
			"📋 Buyurtma: <b>#%d</b>\n"+
			"👤 %s (@%s)\n"+
			"📱 Telefon: <i>%s</i>\n"+
			"📦 Xizmat: <i>%s</i>\n"+
			"📌 Mavzu: <i>%s</i>\n"+
			"📄 Varaq: <i>%d ta</i>\n"+
			"💵 Jami: <b>%s</b> so'm\n"+
			"⏳ Deadline: <i>%s</i>",
		order.ID,
		utils.EscapeHTML(order.UserName),
		utils.EscapeHTML(displayName(order.Username)),
		phoneOrDash(order.Phone),
		utils.EscapeHTML(order.Service),
		utils.EscapeHTML(order.Subject),
		order.Pages,
		utils.FormatPrice(order.TotalPrice),
		order.Deadline,
	)

	keyboard := newOrderKeyboard(order.ID)
	for _, adminID := range n.settings.Admins() {
		if _, err := n.telegram.SendMessageWithInlineKeyboard(adminID, text, keyboard); err != nil {
			n.logger.Error("Не удалось уведомить админа о новом заказе",
				zap.Error(err),
				zap.Int64("admin_id", adminID),
				zap.Int64("order_id", order.ID),
			)
		}
	}
}

// OrderAccepted отправляет заказчику платежные реквизиты и сообщает
// остальным админам, что заказ разобран
func (n *Notifier) OrderAccepted(order models.Order, adminID int64, adminUsername string) {
	halfPayment := order.TotalPrice / 2

	userText := fmt.Sprintf(
		"🎉 <b>Buyurtma #%d qabul qilindi!</b>\n"+
			"────────────────────\n"+
			"📋 Xizmat: <i>%s</i>\n"+
			"📌 Mavzu: <i>%s</i>\n"+
			"📄 Varaq: <i>%d ta</i>\n"+
			"💵 Jami: <b>%s so'm</b>\n"+
			"💳 50%% avans: <b>%s so'm</b>\n"+
			"🔹 Karta: <code>%s</code>\n"+
			"👤 Egasi: <i>%s</i>\n"+
			"👨‍💻 Admin: @%s\n"+
			"────────────────────\n"+
			"ℹ️ <i>50%% to'lovni amalga oshirib, skrinshotni admin ga yuboring. To'lov tasdiqlangach ish boshlanadi!</i>",
		order.ID,
		utils.EscapeHTML(order.Service),
		utils.EscapeHTML(order.Subject),
		order.Pages,
		utils.FormatPrice(order.TotalPrice),
		utils.FormatPrice(halfPayment),
		n.cfg.CardNumber,
		utils.EscapeHTML(n.cfg.CardOwner),
		displayName(adminUsername),
	)

	if _, err := n.telegram.SendHTMLMessage(order.UserID, userText); err != nil {
		n.logger.Error("Не удалось отправить заказчику реквизиты",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
			zap.Int64("order_id", order.ID),
		)
	}

	claimText := fmt.Sprintf(
		"ℹ️ <b>Buyurtma #%d qabul qilindi!</b>\n👨‍💻 Tasdiqlagan: @%s",
		order.ID, displayName(adminUsername),
	)
	for _, otherID := range n.settings.Admins() {
		if otherID == adminID {
			continue
		}
		if _, err := n.telegram.SendHTMLMessage(otherID, claimText); err != nil {
			n.logger.Error("Не удалось уведомить админа о разобранном заказе",
				zap.Error(err),
				zap.Int64("admin_id", otherID),
				zap.Int64("order_id", order.ID),
			)
		}
	}
}

// OrderRejected сообщает заказчику причину отказа
func (n *Notifier) OrderRejected(order models.Order, reason string) {
	text := fmt.Sprintf(
		"❌ <b>Buyurtma #%d rad etildi</b>\n"+
			"────────────────────\n"+
			"📋 Sabab: <i>%s</i>\n"+
			"────────────────────\n"+
			"ℹ️ <i>Savollar uchun:</i> @%s",
		order.ID,
		utils.EscapeHTML(reason),
		n.cfg.AdminUsername,
	)

	if _, err := n.telegram.SendHTMLMessage(order.UserID, text); err != nil {
		n.logger.Error("Не удалось уведомить заказчика об отказе",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
			zap.Int64("order_id", order.ID),
		)
	}
}

// OrderCompleted сообщает заказчику о готовности работы
func (n *Notifier) OrderCompleted(order models.Order, adminUsername string) {
	text := fmt.Sprintf(
		"✔️ <b>Buyurtma #%d tayyor!</b>\n"+
			"────────────────────\n"+
			"📋 Xizmat: <i>%s</i>\n"+
			"💵 Jami: <b>%s so'm</b>\n"+
			"────────────────────\n"+
			"📥 <i>Faylni olish uchun @%s bilan bog'laning.</i>",
		order.ID,
		utils.EscapeHTML(order.Service),
		utils.FormatPrice(order.TotalPrice),
		displayName(adminUsername),
	)

	if _, err := n.telegram.SendHTMLMessage(order.UserID, text); err != nil {
		n.logger.Error("Не удалось уведомить заказчика о готовности",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
			zap.Int64("order_id", order.ID),
		)
	}
}

// MessageToUser пересылает заказчику произвольный текст от админа.
// Ошибка возвращается, чтобы админ получил подтверждение доставки.
func (n *Notifier) MessageToUser(order models.Order, text string) error {
	userText := fmt.Sprintf(
		"📩 <b>Buyurtma #%d bo'yicha xabar:</b>\n"+
			"────────────────────\n"+
			"✍️ <i>%s</i>\n"+
			"────────────────────\n"+
			"ℹ️ <i>Javob uchun:</i> @%s",
		order.ID,
		utils.EscapeHTML(text),
		n.cfg.AdminUsername,
	)

	if _, err := n.telegram.SendHTMLMessage(order.UserID, userText); err != nil {
		n.logger.Error("Не удалось доставить сообщение заказчику",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
			zap.Int64("order_id", order.ID),
		)
		return err
	}

	return nil
}

func displayName(username string) string {
	if username == "" {
		return "Noma'lum"
	}
	return username
}

func phoneOrDash(phone string) string {
	if phone == "" {
		return "Kiritilmadi"
	}
	return phone
}
