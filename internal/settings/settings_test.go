package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func load(t *testing.T, path string, admins []int64) *Service {
	t.Helper()

	svc, err := Load(path, admins, zap.NewNop())
	if err != nil {
		t.Fatalf("не удалось загрузить настройки: %v", err)
	}
	return svc
}

func TestLoadCreatesFileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	svc := load(t, path, []int64{100})

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("файл настроек не создан: %v", err)
	}
	if !svc.IsAdmin(100) {
		t.Error("стартовый админ не добавлен")
	}
	if len(svc.Services()) == 0 {
		t.Error("прайс-лист по умолчанию пуст")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	first := load(t, path, []int64{100})
	if _, err := first.AddAdmin(200); err != nil {
		t.Fatal(err)
	}
	if err := first.SetPrice("📜 Referat", 7500); err != nil {
		t.Fatal(err)
	}

	// Стартовый список при повторной загрузке игнорируется: файл уже есть
	second := load(t, path, []int64{999})

	if !second.IsAdmin(100) || !second.IsAdmin(200) {
		t.Errorf("состав админов потерян: %v", second.Admins())
	}
	if second.IsAdmin(999) {
		t.Error("стартовый список не должен применяться к существующему файлу")
	}

	price, _ := second.LookupService("📜 Referat")
	if price != 7500 {
		t.Errorf("цена = %d, ожидалось 7500", price)
	}
}

func TestServicesKeepOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	svc := load(t, path, []int64{100})

	services := svc.Services()
	reloaded := load(t, path, nil).Services()

	if len(services) != len(reloaded) {
		t.Fatalf("прайс-лист изменился: %d против %d", len(services), len(reloaded))
	}
	for i := range services {
		if services[i] != reloaded[i] {
			t.Errorf("позиция %d: %+v против %+v", i, services[i], reloaded[i])
		}
	}
}

func TestAddAdminDuplicate(t *testing.T) {
	svc := load(t, filepath.Join(t.TempDir(), "settings.yaml"), []int64{100})

	added, err := svc.AddAdmin(100)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("повторное добавление должно возвращать false")
	}
	if len(svc.Admins()) != 1 {
		t.Errorf("состав админов изменился: %v", svc.Admins())
	}
}

func TestRemoveAdmin(t *testing.T) {
	svc := load(t, filepath.Join(t.TempDir(), "settings.yaml"), []int64{100, 200})

	if err := svc.RemoveAdmin(200); err != nil {
		t.Fatal(err)
	}
	if svc.IsAdmin(200) {
		t.Error("админ не удален")
	}

	// Удаление отсутствующего - не ошибка
	if err := svc.RemoveAdmin(777); err != nil {
		t.Errorf("удаление отсутствующего админа: %v", err)
	}
}

func TestRemoveLastAdmin(t *testing.T) {
	svc := load(t, filepath.Join(t.TempDir(), "settings.yaml"), []int64{100})

	if err := svc.RemoveAdmin(100); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("ошибка = %v, ожидалась ErrLastAdmin", err)
	}
	if !svc.IsAdmin(100) {
		t.Error("последний админ должен остаться")
	}
}

func TestLookupServiceFallback(t *testing.T) {
	svc := load(t, filepath.Join(t.TempDir(), "settings.yaml"), []int64{100})

	price, minPages := svc.LookupService("Kurs ishi")
	if price != DefaultPrice || minPages != DefaultMinPages {
		t.Errorf("для услуги вне прайса: цена %d, минимум %d", price, minPages)
	}
}

func TestSetPriceUnknownService(t *testing.T) {
	svc := load(t, filepath.Join(t.TempDir(), "settings.yaml"), []int64{100})

	if err := svc.SetPrice("Dissertatsiya", 9000); !errors.Is(err, ErrUnknownService) {
		t.Fatalf("ошибка = %v, ожидалась ErrUnknownService", err)
	}
}
