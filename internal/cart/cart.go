// Package cart хранит черновики заказов в памяти процесса.
// Черновик живёт ограниченное время и удаляется фоновым уборщиком.
package cart

import (
	"sync"
	"time"
)

// Действия в корзине
const (
	ActionPurchase = "purchase"
	ActionExtend   = "extend"
	ActionSwitch   = "switch"
)

// Draft — выбор пользователя до подтверждения покупки.
type Draft struct {
	Action     string
	TariffID   uint
	PeriodDays int
}

type entry struct {
	draft     Draft
	expiresAt time.Time
}

// Store — потокобезопасное хранилище черновиков с TTL, ключ — ID пользователя.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uint]entry

	done      chan struct{}
	closeOnce sync.Once
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl:     ttl,
		entries: make(map[uint]entry),
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Close останавливает фонового уборщика. Повторный вызов безопасен.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Put сохраняет черновик пользователя, заменяя предыдущий.
func (s *Store) Put(userID uint, draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = entry{draft: draft, expiresAt: time.Now().Add(s.ttl)}
}

// Get возвращает черновик, если он ещё не истёк.
func (s *Store) Get(userID uint) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.entries, userID)
		return Draft{}, false
	}
	return e.draft, true
}

// Update изменяет существующий черновик. Возвращает false, если черновика нет.
func (s *Store) Update(userID uint, fn func(*Draft)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.entries, userID)
		return false
	}
	fn(&e.draft)
	e.expiresAt = time.Now().Add(s.ttl)
	s.entries[userID] = e
	return true
}

// Clear удаляет черновик пользователя.
func (s *Store) Clear(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

func (s *Store) janitor() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			now := time.Now()
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
