package bot

import "testing"

func TestSessionManagerCreatesOnFirstStep(t *testing.T) {
	manager := NewSessionManager()

	sess := manager.Get(1)
	if sess.Step != StepService {
		t.Errorf("новая сессия начинается с шага %q, ожидался %q", sess.Step, StepService)
	}
}

func TestSessionManagerReturnsSameSession(t *testing.T) {
	manager := NewSessionManager()

	first := manager.Get(1)
	first.Draft.Service = "📜 Referat"

	second := manager.Get(1)
	if second != first {
		t.Fatal("повторный Get должен возвращать ту же сессию")
	}
	if second.Draft.Service != "📜 Referat" {
		t.Error("черновик потерян между обращениями")
	}
}

func TestSessionManagerIsolatesChats(t *testing.T) {
	manager := NewSessionManager()

	manager.Get(1).Draft.Service = "📜 Referat"

	if manager.Get(2).Draft.Service != "" {
		t.Error("черновики разных чатов не должны пересекаться")
	}
}

func TestSessionReset(t *testing.T) {
	manager := NewSessionManager()

	sess := manager.Get(1)
	sess.Step = StepConfirm
	sess.Draft = Draft{Service: "📜 Referat", Subject: "Tarix", Pages: 10}
	sess.Editing = true
	sess.Admin = AdminContext{OrderID: 7}
	sess.MessageID = 42

	manager.Reset(1)

	if sess.Step != StepService {
		t.Errorf("шаг = %q, ожидался %q", sess.Step, StepService)
	}
	if sess.Draft != (Draft{}) {
		t.Errorf("черновик не очищен: %+v", sess.Draft)
	}
	if sess.Editing {
		t.Error("флаг правки не снят")
	}
	if sess.Admin != (AdminContext{}) {
		t.Errorf("админский контекст не очищен: %+v", sess.Admin)
	}
	// Последнее сообщение бота сохраняется, чтобы заменить его новым экраном
	if sess.MessageID != 42 {
		t.Error("идентификатор последнего сообщения должен переживать сброс")
	}
}
