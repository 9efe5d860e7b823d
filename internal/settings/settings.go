package settings

import (
	"errors"
	"io/ioutil"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

var (
	// ErrLastAdmin возвращается при попытке удалить последнего админа
	ErrLastAdmin = errors.New("нельзя удалить последнего админа")
	// ErrUnknownService возвращается при изменении цены несуществующей услуги
	ErrUnknownService = errors.New("неизвестная услуга")
)

// Цена и минимальный объем для услуг, которых нет в прайс-листе
// (свободный ввод через "Boshqa xizmatlar").
const (
	DefaultPrice    int64 = 5000
	DefaultMinPages       = 5
)

const filePermissions = 0o644

// ServicePrice - позиция прайс-листа
type ServicePrice struct {
	Name     string `yaml:"name"`
	Price    int64  `yaml:"price"` // сум за страницу
	MinPages int    `yaml:"min_pages"`
}

// durable - формат файла настроек
type durable struct {
	Admins   []int64        `yaml:"admins"`
	Services []ServicePrice `yaml:"services"`
}

// Service хранит список админов и прайс-лист. Все изменения сразу
// записываются в файл, чтобы пережить перезапуск процесса.
type Service struct {
	path   string
	logger *zap.Logger

	mu       sync.Mutex
	admins   []int64
	services []ServicePrice
}

// Load читает файл настроек. Если файла нет, создается файл
// со стартовым прайс-листом и переданным списком админов.
func Load(path string, initialAdmins []int64, logger *zap.Logger) (*Service, error) {
	s := &Service{
		path:   path,
		logger: logger,
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}

		s.admins = append(s.admins, initialAdmins...)
		s.services = defaultServices()
		if err := s.persistLocked(); err != nil {
			return nil, err
		}

		logger.Info("Файл настроек создан", zap.String("path", path))
		return s, nil
	}

	var d durable
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	s.admins = d.Admins
	s.services = d.Services
	if len(s.services) == 0 {
		s.services = defaultServices()
	}

	logger.Info("Настройки загружены",
		zap.String("path", path),
		zap.Int("admins", len(s.admins)),
		zap.Int("services", len(s.services)),
	)

	return s, nil
}

func defaultServices() []ServicePrice {
	return []ServicePrice{
		{Name: "📽 Prezentatsiya", Price: 4000, MinPages: 5},
		{Name: "📑 Mustaqil ish", Price: 5000, MinPages: 5},
		{Name: "📜 Referat", Price: 5000, MinPages: 5},
		{Name: "📝 Esselar", Price: 6000, MinPages: 3},
	}
}

// IsAdmin проверяет, входит ли пользователь в список админов
func (s *Service) IsAdmin(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin == id {
			return true
		}
	}
	return false
}

// Admins возвращает копию списка админов
func (s *Service) Admins() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	admins := make([]int64, len(s.admins))
	copy(admins, s.admins)
	return admins
}

// AddAdmin добавляет админа. Возвращает false, если он уже в списке.
func (s *Service) AddAdmin(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, admin := range s.admins {
		if admin == id {
			return false, nil
		}
	}

	s.admins = append(s.admins, id)
	if err := s.persistLocked(); err != nil {
		// откатываем, раз сохранить не удалось
		s.admins = s.admins[:len(s.admins)-1]
		return false, err
	}

	s.logger.Info("Добавлен админ", zap.Int64("admin_id", id))
	return true, nil
}

// RemoveAdmin удаляет админа. Последнего админа удалить нельзя.
func (s *Service) RemoveAdmin(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, admin := range s.admins {
		if admin == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	if len(s.admins) <= 1 {
		return ErrLastAdmin
	}

	removed := s.admins[idx]
	s.admins = append(s.admins[:idx], s.admins[idx+1:]...)
	if err := s.persistLocked(); err != nil {
		s.admins = append(s.admins, removed)
		return err
	}

	s.logger.Info("Удален админ", zap.Int64("admin_id", id))
	return nil
}

// Services возвращает копию прайс-листа в порядке файла
func (s *Service) Services() []ServicePrice {
	s.mu.Lock()
	defer s.mu.Unlock()

	services := make([]ServicePrice, len(s.services))
	copy(services, s.services)
	return services
}

// LookupService возвращает цену и минимальный объем для услуги.
// Для услуг вне прайс-листа действуют значения по умолчанию.
func (s *Service) LookupService(name string) (int64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, svc := range s.services {
		if svc.Name == name {
			return svc.Price, svc.MinPages
		}
	}
	return DefaultPrice, DefaultMinPages
}

// SetPrice меняет цену услуги из прайс-листа
func (s *Service) SetPrice(name string, price int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, svc := range s.services {
		if svc.Name == name {
			old := s.services[i].Price
			s.services[i].Price = price
			if err := s.persistLocked(); err != nil {
				s.services[i].Price = old
				return err
			}

			s.logger.Info("Цена услуги обновлена",
				zap.String("service", name),
				zap.Int64("price", price),
			)
			return nil
		}
	}

	return ErrUnknownService
}

// persistLocked записывает текущее состояние в файл. Вызывается
// только под мьютексом.
func (s *Service) persistLocked() error {
	data, err := yaml.Marshal(durable{
		Admins:   s.admins,
		Services: s.services,
	})
	if err != nil {
		return err
	}

	if err := ioutil.WriteFile(s.path, data, filePermissions); err != nil {
		s.logger.Error("Ошибка при сохранении настроек",
			zap.Error(err),
			zap.String("path", s.path),
		)
		return err
	}

	return nil
}
