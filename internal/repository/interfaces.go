package repository

import (
	"context"

	"github.com/narabot/narabot/internal/domain"
)

// PrefRepository - хранилище настроек чата (режим по умолчанию, numOfRows,
// глубина периода). Без базы работает in-memory мок.
type PrefRepository interface {
	Get(ctx context.Context, chatID int64) (*domain.ChatPrefs, error)
	Upsert(ctx context.Context, prefs *domain.ChatPrefs) error
}
