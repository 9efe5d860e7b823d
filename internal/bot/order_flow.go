package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"referat-bot/internal/models"
	"referat-bot/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Правила проверки пользовательского ввода
const (
	deadlineLayout  = "02.01.2006"
	todayCutoffHour = 22 // после 22:00 по Ташкенту "сегодня" уже не предлагается
	minSubjectLen   = 5
)

// Телефон: +998 и ровно 9 цифр
var phonePattern = regexp.MustCompile(`^\+998\d{9}$`)

// tashkent - все календарные расчеты ведутся по времени Ташкента
var tashkent *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Tashkent")
	if err != nil {
		loc = time.FixedZone("UZT", 5*60*60)
	}
	tashkent = loc
}

var (
	errTodayTooLate    = errors.New("на сегодня уже не осталось времени")
	errDeadlineFormat  = errors.New("неверный формат даты")
	errDeadlinePast    = errors.New("дата в прошлом")
	errPagesNotNumber  = errors.New("число страниц - не число")
	errPagesBelowMin   = errors.New("число страниц меньше минимума")
	errUnknownDeadline = errors.New("неизвестный вариант срока")
)

// deadlineFromChoice превращает нажатую кнопку срока в дату.
// "Сегодня" отклоняется после часа отсечки, чтобы оставался запас времени.
func deadlineFromChoice(choice string, now time.Time) (string, error) {
	now = now.In(tashkent)

	switch choice {
	case cbDeadlineToday:
		if now.Hour() >= todayCutoffHour {
			return "", errTodayTooLate
		}
		return now.Format(deadlineLayout), nil
	case cbDeadline3Days:
		return now.AddDate(0, 0, 3).Format(deadlineLayout), nil
	case cbDeadline1Week:
		return now.AddDate(0, 0, 7).Format(deadlineLayout), nil
	default:
		return "", errUnknownDeadline
	}
}

// parseCustomDeadline разбирает дату в формате DD.MM.YYYY и проверяет,
// что она не раньше сегодняшнего дня по Ташкенту
func parseCustomDeadline(text string, now time.Time) (string, error) {
	deadline, err := time.ParseInLocation(deadlineLayout, strings.TrimSpace(text), tashkent)
	if err != nil {
		return "", errDeadlineFormat
	}

	now = now.In(tashkent)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tashkent)
	if deadline.Before(today) {
		return "", errDeadlinePast
	}

	return deadline.Format(deadlineLayout), nil
}

// parsePages разбирает число страниц и проверяет минимум услуги
func parsePages(text string, minPages int) (int, error) {
	pages, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || pages <= 0 {
		return 0, errPagesNotNumber
	}
	if pages < minPages {
		return 0, errPagesBelowMin
	}
	return pages, nil
}

func validSubject(text string) bool {
	return len([]rune(strings.TrimSpace(text))) >= minSubjectLen
}

func validPhone(text string) bool {
	return phonePattern.MatchString(text)
}

// draftSummary строит карточку заказа из уже заполненных полей
func draftSummary(d Draft) string {
	var b strings.Builder
	b.WriteString("📋 <b>Buyurtma:</b>\n")

	if d.Service != "" {
		fmt.Fprintf(&b, "🌟 Xizmat: <i>%s</i>\n", utils.EscapeHTML(d.Service))
	}
	if d.Subject != "" {
		fmt.Fprintf(&b, "📌 Mavzu: <i>%s</i>\n", utils.EscapeHTML(d.Subject))
	}
	if d.Pages > 0 {
		fmt.Fprintf(&b, "📄 Varaq: <i>%d ta</i>\n", d.Pages)
	}
	if d.Deadline != "" {
		fmt.Fprintf(&b, "⏳ Deadline: <i>%s</i>\n", d.Deadline)
	}

	return b.String()
}

// replaceMessage удаляет предыдущее сообщение бота и отправляет новое,
// запоминая его ID в сессии. Ошибка удаления не важна: сообщение могли
// удалить руками.
func (s *Service) replaceMessage(chatID int64, sess *Session, text string, markup interface{}) {
	if sess.MessageID != 0 {
		_ = s.telegram.DeleteMessage(chatID, sess.MessageID)
	}

	var (
		messageID int
		err       error
	)
	switch keyboard := markup.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		messageID, err = s.telegram.SendMessageWithKeyboard(chatID, text, keyboard)
	case tgbotapi.InlineKeyboardMarkup:
		messageID, err = s.telegram.SendMessageWithInlineKeyboard(chatID, text, keyboard)
	default:
		messageID, err = s.telegram.SendHTMLMessage(chatID, text)
	}
	if err != nil {
		s.logger.Error("Ошибка при отправке сообщения",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	sess.MessageID = messageID
}

// sendMainMenu показывает главное меню и переводит диалог на выбор услуги
func (s *Service) sendMainMenu(chatID int64, sess *Session, text string) {
	sess.Step = StepService
	s.replaceMessage(chatID, sess, text, mainMenuKeyboard(s.settings.Services()))
}

// cancelOrder сбрасывает диалог по кнопке "Bekor"
func (s *Service) cancelOrder(chatID int64, sess *Session) {
	sess.reset()
	s.sendMainMenu(chatID, sess, "✅ <b>Buyurtma bekor qilindi!</b>\n🌟 <i>Quyidan xizmat tanlang:</i>")
}

// handleServiceStep - выбор услуги из главного меню
func (s *Service) handleServiceStep(chatID int64, sess *Session, msg models.Message) {
	for _, svc := range s.settings.Services() {
		if msg.Text == svc.Name {
			sess.Draft.Service = svc.Name
			sess.Draft.Price = svc.Price
			sess.Draft.MinPages = svc.MinPages
			s.promptSubject(chatID, sess)
			return
		}
	}

	s.sendMainMenu(chatID, sess,
		"⚠️ <b>Menyudan xizmat tanlang yoki \""+btnOtherServices+"\"ni bosing!</b>")
}

// handleServiceCustomStep - свободный ввод услуги после "Boshqa xizmatlar"
func (s *Service) handleServiceCustomStep(chatID int64, sess *Session, msg models.Message) {
	if msg.Text == btnBack {
		s.sendMainMenu(chatID, sess, "🌟 <i>Buyurtma berish uchun xizmat tanlang:</i>")
		return
	}

	name := strings.TrimSpace(msg.Text)
	if name == "" {
		s.replaceMessage(chatID, sess,
			"✍️ <b>Kerakli xizmat nomini yozing:</b>\n<i>Masalan: Kurs ishi, Diplom ishi</i>",
			stepMenuKeyboard())
		return
	}

	// Для услуг вне прайс-листа действует цена по умолчанию
	price, minPages := s.settings.LookupService(name)
	sess.Draft.Service = name
	sess.Draft.Price = price
	sess.Draft.MinPages = minPages
	s.promptSubject(chatID, sess)
}

func (s *Service) promptSubject(chatID int64, sess *Session) {
	sess.Step = StepSubject
	text := fmt.Sprintf(
		"📋 <b>Buyurtma:</b>\n"+
			"🌟 Xizmat: <i>%s</i>\n"+
			"💰 Narx: <b>%s</b> so'm/varaq\n"+
			"📝 <i>Ish mavzusini yozing:</i>",
		utils.EscapeHTML(sess.Draft.Service),
		utils.FormatPrice(sess.Draft.Price),
	)
	s.replaceMessage(chatID, sess, text, stepMenuKeyboard())
}

// handleSubjectStep - ввод темы работы
func (s *Service) handleSubjectStep(chatID int64, sess *Session, msg models.Message) {
	if msg.Text == btnBack {
		sess.Editing = false
		s.sendMainMenu(chatID, sess, "🌟 <i>Xizmat tanlang:</i>")
		return
	}

	if !validSubject(msg.Text) {
		text := draftSummary(sess.Draft) +
			fmt.Sprintf("⚠️ <b>Mavzu kamida %d belgidan iborat bo'lsin!</b>", minSubjectLen)
		s.replaceMessage(chatID, sess, text, stepMenuKeyboard())
		return
	}

	sess.Draft.Subject = strings.TrimSpace(msg.Text)

	if sess.Editing {
		s.promptConfirm(chatID, sess)
		return
	}
	s.promptPages(chatID, sess)
}

func (s *Service) promptPages(chatID int64, sess *Session) {
	sess.Step = StepPages
	text := draftSummary(sess.Draft) + "📄 <i>Varaq sonini kiriting:</i>"
	s.replaceMessage(chatID, sess, text, stepMenuKeyboard())
}

// handlePagesStep - ввод числа страниц
func (s *Service) handlePagesStep(chatID int64, sess *Session, msg models.Message) {
	if msg.Text == btnBack {
		sess.Editing = false
		s.promptSubject(chatID, sess)
		return
	}

	pages, err := parsePages(msg.Text, sess.Draft.MinPages)
	if err != nil {
		var warning string
		if errors.Is(err, errPagesBelowMin) {
			warning = fmt.Sprintf("⚠️ <b>Minimal varaq soni %d ta!</b>", sess.Draft.MinPages)
		} else {
			warning = "⚠️ <b>Faqat raqam kiriting!</b>"
		}
		s.replaceMessage(chatID, sess, draftSummary(sess.Draft)+warning, stepMenuKeyboard())
		return
	}

	sess.Draft.Pages = pages

	if sess.Editing {
		s.promptConfirm(chatID, sess)
		return
	}
	s.promptDeadline(chatID, sess)
}

func (s *Service) promptDeadline(chatID int64, sess *Session) {
	sess.Step = StepDeadline
	text := draftSummary(sess.Draft) + "⏳ <i>Muddatni tanlang:</i>"
	s.replaceMessage(chatID, sess, text, deadlineKeyboard())
}

// handleDeadlineChoice - кнопки срока (сегодня / 3 дня / неделя / своя дата)
func (s *Service) handleDeadlineChoice(cb models.CallbackQuery, sess *Session) {
	if cb.Data == cbDeadlineCustom {
		text := draftSummary(sess.Draft) + "📅 <i>Sanani DD.MM.YYYY formatida kiriting:</i>"
		s.replaceMessage(cb.ChatID, sess, text, stepMenuKeyboard())
		s.answerCallback(cb.ID, "", false)
		return
	}

	deadline, err := deadlineFromChoice(cb.Data, time.Now())
	if err != nil {
		if errors.Is(err, errTodayTooLate) {
			s.answerCallback(cb.ID,
				fmt.Sprintf("⚠️ Bugun uchun yetarli vaqt qolmadi!\n📅 Boshqa kunni tanlang yoki shoshilinch bo'lsa @%s ga murojaat qiling!", s.cfg.AdminUsername),
				true)
			return
		}
		s.answerCallback(cb.ID, "", false)
		return
	}

	sess.Draft.Deadline = deadline
	s.answerCallback(cb.ID, "", false)

	if sess.Editing {
		s.promptConfirm(cb.ChatID, sess)
		return
	}
	s.promptPhone(cb.ChatID, sess)
}

// handleDeadlineText - своя дата текстом либо возврат к кнопкам срока
func (s *Service) handleDeadlineText(chatID int64, sess *Session, msg models.Message) {
	if msg.Text == btnBack {
		sess.Editing = false
		s.promptPages(chatID, sess)
		return
	}

	deadline, err := parseCustomDeadline(msg.Text, time.Now())
	if err != nil {
		var warning string
		if errors.Is(err, errDeadlinePast) {
			warning = "⚠️ <b>Muddat o'tmishda bo'lmasligi kerak!</b>"
		} else {
			warning = "⚠️ <b>Noto'g'ri format! DD.MM.YYYY da kiriting:</b>"
		}
		s.replaceMessage(chatID, sess, draftSummary(sess.Draft)+warning, stepMenuKeyboard())
		return
	}

	sess.Draft.Deadline = deadline

	if sess.Editing {
		s.promptConfirm(chatID, sess)
		return
	}
	s.promptPhone(chatID, sess)
}

func (s *Service) promptPhone(chatID int64, sess *Session) {
	sess.Step = StepPhone
	text := draftSummary(sess.Draft) + "📞 <i>Telefon raqamingiz (ixtiyoriy):</i>"
	s.replaceMessage(chatID, sess, text, phoneMenuKeyboard())
}

// handlePhoneStep - контакт, пропуск или номер текстом
func (s *Service) handlePhoneStep(chatID int64, sess *Session, msg models.Message) {
	switch {
	case msg.Text == btnBack:
		sess.Editing = false
		s.promptDeadline(chatID, sess)
		return
	case msg.Contact != nil:
		sess.Draft.Phone = msg.Contact.PhoneNumber
	case msg.Text == btnSkipPhone:
		sess.Draft.Phone = ""
	case validPhone(msg.Text):
		sess.Draft.Phone = msg.Text
	default:
		text := draftSummary(sess.Draft) +
			"⚠️ <b>Telefon +998 bilan boshlanib, 12 belgidan iborat bo'lsin! Masalan: +998901234567</b>"
		s.replaceMessage(chatID, sess, text, phoneMenuKeyboard())
		return
	}

	s.promptConfirm(chatID, sess)
}

// promptConfirm показывает итоговую карточку с общей суммой.
// Если каких-то обязательных полей нет (дефект шагов), начинаем заново.
func (s *Service) promptConfirm(chatID int64, sess *Session) {
	d := sess.Draft
	if d.Service == "" || d.Subject == "" || d.Pages <= 0 || d.Deadline == "" {
		s.logger.Warn("Неполный черновик на шаге подтверждения",
			zap.Int64("chat_id", chatID),
			zap.String("service", d.Service),
		)
		sess.reset()
		s.sendMainMenu(chatID, sess, "🌟 <i>Buyurtma berish uchun xizmat tanlang:</i>")
		return
	}

	sess.Editing = false
	sess.Step = StepConfirm

	totalPrice := int64(d.Pages) * d.Price
	text := fmt.Sprintf(
		"📋 <b>Buyurtma tasdiqlash:</b>\n"+
			"🌟 Xizmat: <i>%s</i>\n"+
			"📌 Mavzu: <i>%s</i>\n"+
			"📄 Varaq: <i>%d ta</i>\n"+
			"💰 Narx: <b>%s</b> so'm/varaq\n"+
			"💵 Jami: <b>%s</b> so'm\n"+
			"⏳ Deadline: <i>%s</i>\n"+
			"📞 Telefon: <i>%s</i>\n"+
			"✅ <i>Tasdiqlaysizmi?</i>",
		utils.EscapeHTML(d.Service),
		utils.EscapeHTML(d.Subject),
		d.Pages,
		utils.FormatPrice(d.Price),
		utils.FormatPrice(totalPrice),
		d.Deadline,
		phoneOrDash(d.Phone),
	)
	s.replaceMessage(chatID, sess, text, confirmKeyboard())
}

// handleConfirmCallback - подтверждение или переход к правке
func (s *Service) handleConfirmCallback(cb models.CallbackQuery, sess *Session) {
	switch cb.Data {
	case cbEditOrder:
		sess.Step = StepEditChoice
		s.replaceMessage(cb.ChatID, sess, "✏️ <b>Qaysi qismni tahrirlamoqchisiz?</b>", editKeyboard())
		s.answerCallback(cb.ID, "", false)

	case cbConfirmOrder:
		s.submitOrder(cb, sess)
	}
}

// submitOrder собирает заказ из черновика и проводит его через
// OrderService. При превышении лимита остаемся на подтверждении.
func (s *Service) submitOrder(cb models.CallbackQuery, sess *Session) {
	d := sess.Draft

	order := models.Order{
		UserID:   cb.UserID,
		UserName: cb.UserName,
		Username: cb.UserLogin,
		Phone:    d.Phone,
		Service:  d.Service,
		Subject:  d.Subject,
		Pages:    d.Pages,
		Price:    d.Price,
		Deadline: d.Deadline,
	}

	created, err := s.orderService.Submit(order)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.answerCallback(cb.ID, "⚠️ 24 soat ichida ko'p buyurtma berdingiz!", true)
			return
		}
		s.logger.Error("Ошибка при оформлении заказа",
			zap.Error(err),
			zap.Int64("user_id", cb.UserID),
		)
		s.replaceMessage(cb.ChatID, sess,
			"⚠️ <b>Serverda xatolik yuz berdi, keyinroq urinib ko'ring!</b>",
			confirmKeyboard())
		s.answerCallback(cb.ID, "", false)
		return
	}

	receipt := fmt.Sprintf(
		"✅ <b>Buyurtmangiz qabul qilindi!</b>\n"+
			"📋 Buyurtma: <b>#%d</b>\n"+
			"🌟 Xizmat: <i>%s</i>\n"+
			"📌 Mavzu: <i>%s</i>\n"+
			"📄 Varaq: <i>%d ta</i>\n"+
			"💵 Jami: <b>%s</b> so'm\n"+
			"⏳ Deadline: <i>%s</i>\n"+
			"📞 Telefon: <i>%s</i>\n"+
			"⏳ <i>Admin javobini kuting!</i>",
		created.ID,
		utils.EscapeHTML(created.Service),
		utils.EscapeHTML(created.Subject),
		created.Pages,
		utils.FormatPrice(created.TotalPrice),
		created.Deadline,
		phoneOrDash(created.Phone),
	)
	s.replaceMessage(cb.ChatID, sess, receipt, nil)

	// Сессия готова к следующему заказу
	sess.reset()
	sess.MessageID = 0
	s.sendMainMenu(cb.ChatID, sess, "🌟 <i>Yana buyurtma berish uchun xizmat tanlang:</i>")
	s.answerCallback(cb.ID, "Buyurtma tasdiqlandi!", false)
}

// handleEditChoiceStep - выбор поля для правки
func (s *Service) handleEditChoiceStep(chatID int64, sess *Session, msg models.Message) {
	d := sess.Draft

	switch msg.Text {
	case btnEditSubject:
		sess.Editing = true
		sess.Step = StepSubject
		text := fmt.Sprintf(
			"📋 <b>Buyurtma tahrirlash:</b>\n📌 Joriy mavzu: <i>%s</i>\n📝 <i>Yangi mavzuni yozing:</i>",
			utils.EscapeHTML(d.Subject))
		s.replaceMessage(chatID, sess, text, stepMenuKeyboard())

	case btnEditPages:
		sess.Editing = true
		sess.Step = StepPages
		text := fmt.Sprintf(
			"📋 <b>Buyurtma tahrirlash:</b>\n📄 Joriy varaq: <i>%d ta</i>\n📄 <i>Yangi varaq sonini kiriting:</i>",
			d.Pages)
		s.replaceMessage(chatID, sess, text, stepMenuKeyboard())

	case btnEditDeadline:
		sess.Editing = true
		sess.Step = StepDeadline
		text := fmt.Sprintf(
			"📋 <b>Buyurtma tahrirlash:</b>\n⏳ Joriy deadline: <i>%s</i>\n⏳ <i>Yangi muddatni tanlang:</i>",
			d.Deadline)
		s.replaceMessage(chatID, sess, text, deadlineKeyboard())

	case btnEditPhone:
		sess.Editing = true
		sess.Step = StepPhone
		text := fmt.Sprintf(
			"📋 <b>Buyurtma tahrirlash:</b>\n📞 Joriy telefon: <i>%s</i>\n📞 <i>Yangi telefon raqamingiz (ixtiyoriy):</i>",
			phoneOrDash(d.Phone))
		s.replaceMessage(chatID, sess, text, phoneMenuKeyboard())

	default:
		s.replaceMessage(chatID, sess,
			"⚠️ <b>Noto'g'ri tanlov!</b>\n<i>Tugmalardan birini tanlang:</i>", editKeyboard())
	}
}

// answerCallback отвечает на нажатие кнопки; ошибка только логируется
func (s *Service) answerCallback(callbackID, text string, alert bool) {
	if err := s.telegram.AnswerCallback(callbackID, text, alert); err != nil {
		s.logger.Debug("Не удалось ответить на callback", zap.Error(err))
	}
}
