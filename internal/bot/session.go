package bot

import "sync"

// Step - текущий шаг диалога. Каждый шаг читает только те поля
// черновика, которые заполнены предыдущими шагами.
type Step string

const (
	StepService       Step = "service"        // выбор услуги из меню
	StepServiceCustom Step = "service_custom" // свободный ввод услуги ("Boshqa xizmatlar")
	StepSubject       Step = "subject"
	StepPages         Step = "pages"
	StepDeadline      Step = "deadline"
	StepPhone         Step = "phone"
	StepConfirm       Step = "confirm"
	StepEditChoice    Step = "edit_choice"

	// Шаги админского диалога
	StepAdminRejectReason Step = "admin_reject_reason"
	StepAdminSendMessage  Step = "admin_send_message"
	StepAdminEditPrice    Step = "admin_edit_price"
	StepAdminAddAdmin     Step = "admin_add_admin"
)

// Draft - накопленные поля будущего заказа
type Draft struct {
	Service  string
	Price    int64 // цена за страницу, зафиксированная при выборе услуги
	MinPages int
	Subject  string
	Pages    int
	Deadline string
	Phone    string // пустая строка - телефон пропущен
}

// AdminContext - данные незавершенного админского действия:
// какой заказ отклоняется, кому шлем сообщение, чью цену правим
type AdminContext struct {
	OrderID    int64
	UserChatID int64
	MessageID  int    // сообщение админа, которое обновляем по завершении
	Service    string // услуга, цена которой редактируется
}

// Session - состояние одного диалога. Живет только в памяти,
// перезапуск процесса сбрасывает все диалоги.
// Сообщения и нажатия кнопок одного чата приходят из разных горутин,
// поэтому обработчик держит mu на все время обработки события.
type Session struct {
	mu sync.Mutex

	Step      Step
	Draft     Draft
	MessageID int  // последнее отправленное ботом сообщение (для замены)
	Editing   bool // после правки одного поля возвращаемся к подтверждению
	Admin     AdminContext
}

// reset возвращает сессию к началу оформления заказа
func (s *Session) reset() {
	s.Step = StepService
	s.Draft = Draft{}
	s.Editing = false
	s.Admin = AdminContext{}
}

// SessionManager хранит сессии по chat id. Карта защищена своим
// мьютексом, поля конкретной сессии - ее собственным Session.mu.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*Session),
	}
}

// Get возвращает сессию чата, создавая новую на первом шаге,
// если ее еще нет
func (m *SessionManager) Get(chatID int64) *Session {
	m.mu.RLock()
	sess, ok := m.sessions[chatID]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok = m.sessions[chatID]; ok {
		return sess
	}

	sess = &Session{Step: StepService}
	m.sessions[chatID] = sess
	return sess
}

// Reset сбрасывает сессию чата к начальному шагу
func (m *SessionManager) Reset(chatID int64) *Session {
	sess := m.Get(chatID)
	sess.reset()
	return sess
}
