package bot

import (
	"fmt"
	"strings"

	"referat-bot/internal/models"

	"go.uber.org/zap"
)

// HandleMessage обрабатывает входящее текстовое сообщение или контакт
func (s *Service) HandleMessage(msg models.Message) {
	sess := s.sessions.Get(msg.ChatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Отметка активности не должна ломать диалог
	if err := s.users.UpdateLastActive(msg.ChatID); err != nil {
		s.logger.Debug("Не удалось обновить last_active",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}

	// Промежуточный ввод убираем из чата, бот ведет диалог одним
	// сообщением. Команды и присланные контакты не трогаем.
	if !strings.HasPrefix(msg.Text, "/") && msg.Contact == nil {
		defer func() {
			_ = s.telegram.DeleteMessage(msg.ChatID, msg.MessageID)
		}()
	}

	// Команды и глобальные кнопки работают на любом шаге
	switch {
	case msg.Text == "/start":
		s.handleStart(msg, sess)
		return
	case msg.Text == "/admin":
		if !s.settings.IsAdmin(msg.ChatID) {
			s.replaceMessage(msg.ChatID, sess, "⚠️ <b>Sizda admin huquqi yo'q!</b>", nil)
			return
		}
		s.showAdminPanel(msg.ChatID, sess)
		return
	case msg.Text == btnCancel:
		s.cancelOrder(msg.ChatID, sess)
		return
	case msg.Text == btnContactAdmin:
		s.sendAdminContact(msg.ChatID, sess)
		return
	case msg.Text == btnOtherServices && sess.Step == StepService:
		sess.Step = StepServiceCustom
		s.replaceMessage(msg.ChatID, sess,
			"✍️ <b>Kerakli xizmat nomini yozing:</b>\n<i>Masalan: Kurs ishi, Diplom ishi</i>",
			stepMenuKeyboard())
		return
	}

	switch sess.Step {
	case StepService:
		s.handleServiceStep(msg.ChatID, sess, msg)
	case StepServiceCustom:
		s.handleServiceCustomStep(msg.ChatID, sess, msg)
	case StepSubject:
		s.handleSubjectStep(msg.ChatID, sess, msg)
	case StepPages:
		s.handlePagesStep(msg.ChatID, sess, msg)
	case StepDeadline:
		s.handleDeadlineText(msg.ChatID, sess, msg)
	case StepPhone:
		s.handlePhoneStep(msg.ChatID, sess, msg)
	case StepConfirm:
		// На подтверждении ждем только кнопки
		s.promptConfirm(msg.ChatID, sess)
	case StepEditChoice:
		s.handleEditChoiceStep(msg.ChatID, sess, msg)

	case StepAdminRejectReason:
		s.handleAdminStep(msg, sess, s.handleAdminRejectReason)
	case StepAdminSendMessage:
		s.handleAdminStep(msg, sess, s.handleAdminSendMessage)
	case StepAdminEditPrice:
		s.handleAdminStep(msg, sess, s.handleAdminEditPrice)
	case StepAdminAddAdmin:
		s.handleAdminStep(msg, sess, s.handleAdminAddAdmin)

	default:
		s.logger.Warn("Неизвестный шаг диалога",
			zap.String("step", string(sess.Step)),
			zap.Int64("chat_id", msg.ChatID),
		)
		sess.reset()
		s.sendMainMenu(msg.ChatID, sess, "🌟 <i>Buyurtma berish uchun xizmat tanlang:</i>")
	}
}

// handleAdminStep перепроверяет роль перед каждым админским вводом
func (s *Service) handleAdminStep(msg models.Message, sess *Session, handler func(int64, *Session, models.Message)) {
	if !s.settings.IsAdmin(msg.ChatID) {
		sess.reset()
		s.sendMainMenu(msg.ChatID, sess, "⚠️ <b>Sizda admin huquqi yo'q!</b>")
		return
	}
	handler(msg.ChatID, sess, msg)
}

// handleStart регистрирует пользователя и показывает главное меню.
// О новых пользователях узнают все админы.
func (s *Service) handleStart(msg models.Message, sess *Session) {
	created, err := s.users.CreateUser(msg.ChatID, msg.Username)
	if err != nil {
		s.logger.Error("Ошибка при регистрации пользователя",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
	if created {
		total, err := s.users.CountUsers()
		if err != nil {
			s.logger.Error("Ошибка при подсчете пользователей", zap.Error(err))
		}
		s.notify.NewUser(msg.Username, total)
	}

	sess.reset()
	name := strings.TrimSpace(msg.FullName)
	if name == "" {
		name = "do'stim"
	}
	greeting := fmt.Sprintf(
		"👋 <b>Assalomu alaykum, %s!</b>\n"+
			"📚 <i>Referat, mustaqil ish va prezentatsiyalar tayyorlab beramiz.</i>\n"+
			"🌟 <i>Buyurtma berish uchun xizmat tanlang:</i>",
		name,
	)
	s.sendMainMenu(msg.ChatID, sess, greeting)
}

func (s *Service) sendAdminContact(chatID int64, sess *Session) {
	text := fmt.Sprintf(
		"📞 <b>Admin bilan bog'lanish:</b>\n"+
			"👨‍💻 Telegram: @%s\n"+
			"📱 Telefon: <code>%s</code>",
		s.cfg.AdminUsername,
		s.cfg.AdminPhone,
	)
	s.replaceMessage(chatID, sess, text, mainMenuKeyboard(s.settings.Services()))
	sess.Step = StepService
}

// HandleCallback обрабатывает нажатие инлайн-кнопки
func (s *Service) HandleCallback(cb models.CallbackQuery) {
	sess := s.sessions.Get(cb.ChatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.users.UpdateLastActive(cb.ChatID); err != nil {
		s.logger.Debug("Не удалось обновить last_active",
			zap.Error(err),
			zap.Int64("chat_id", cb.ChatID),
		)
	}

	switch {
	case cb.Data == cbCancelOrder:
		s.answerCallback(cb.ID, "", false)
		s.cancelOrder(cb.ChatID, sess)

	case strings.HasPrefix(cb.Data, "deadline_"):
		if sess.Step != StepDeadline {
			s.answerCallback(cb.ID, "", false)
			return
		}
		s.handleDeadlineChoice(cb, sess)

	case cb.Data == cbConfirmOrder || cb.Data == cbEditOrder:
		if sess.Step != StepConfirm {
			s.answerCallback(cb.ID, "", false)
			return
		}
		s.handleConfirmCallback(cb, sess)

	default:
		s.handleAdminCallback(cb, sess)
	}
}
