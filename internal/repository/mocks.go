package repository

import (
	"context"
	"sync"

	"github.com/narabot/narabot/internal/domain"
)

// MockPrefRepo - in-memory замена PrefRepository. Используется в тестах и
// как рабочий фолбэк, когда DATABASE_URL не задан.
type MockPrefRepo struct {
	mu    sync.RWMutex
	prefs map[int64]*domain.ChatPrefs // key: ChatID
}

func NewMockPrefRepo() *MockPrefRepo {
	return &MockPrefRepo{prefs: make(map[int64]*domain.ChatPrefs)}
}

func (m *MockPrefRepo) Get(ctx context.Context, chatID int64) (*domain.ChatPrefs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.prefs[chatID]
	if !ok {
		return nil, domain.ErrPrefNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPrefRepo) Upsert(ctx context.Context, prefs *domain.ChatPrefs) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *prefs
	m.prefs[prefs.ChatID] = &cp
	return nil
}
