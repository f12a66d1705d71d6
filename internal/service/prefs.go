package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/narabot/narabot/internal/domain"
	"github.com/narabot/narabot/internal/repository"
)

const maxLookbackDays = 90

// PrefService отдает настройки чата, всегда с рабочим фолбэком: проблемы
// хранилища не должны ломать поиск.
type PrefService interface {
	Get(ctx context.Context, chatID int64) *domain.ChatPrefs
	SetMode(ctx context.Context, chatID int64, mode domain.QueryMode) error
	SetRows(ctx context.Context, chatID int64, rows int) error
	SetLookback(ctx context.Context, chatID int64, days int) error
}

// Defaults - значения для чата, который еще ничего не настраивал.
// Явная величина, передаваемая при создании, а не глобальная переменная.
type Defaults struct {
	Mode         domain.QueryMode
	Rows         int
	LookbackDays int
}

type prefService struct {
	repo     repository.PrefRepository
	defaults Defaults
	logger   *zap.Logger
}

func NewPrefService(repo repository.PrefRepository, defaults Defaults, logger *zap.Logger) PrefService {
	if !defaults.Mode.IsValid() {
		defaults.Mode = domain.BidNotice
	}
	if defaults.Rows < 1 || defaults.Rows > domain.MaxRows {
		defaults.Rows = domain.DefaultRows
	}
	if defaults.LookbackDays < 1 || defaults.LookbackDays > maxLookbackDays {
		defaults.LookbackDays = 7
	}

	return &prefService{repo: repo, defaults: defaults, logger: logger}
}

func (s *prefService) Get(ctx context.Context, chatID int64) *domain.ChatPrefs {
	prefs, err := s.repo.Get(ctx, chatID)
	if err != nil {
		if err != domain.ErrPrefNotFound {
			s.logger.Warn("pref lookup failed, using defaults",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
		return &domain.ChatPrefs{
			ChatID:       chatID,
			DefaultMode:  s.defaults.Mode,
			Rows:         s.defaults.Rows,
			LookbackDays: s.defaults.LookbackDays,
		}
	}
	return prefs
}

func (s *prefService) SetMode(ctx context.Context, chatID int64, mode domain.QueryMode) error {
	if !mode.IsValid() {
		return domain.ErrUnknownMode
	}

	prefs := s.Get(ctx, chatID)
	prefs.DefaultMode = mode
	return s.repo.Upsert(ctx, prefs)
}

func (s *prefService) SetRows(ctx context.Context, chatID int64, rows int) error {
	if rows < 1 || rows > domain.MaxRows {
		return domain.ErrInvalidRows
	}

	prefs := s.Get(ctx, chatID)
	prefs.Rows = rows
	return s.repo.Upsert(ctx, prefs)
}

func (s *prefService) SetLookback(ctx context.Context, chatID int64, days int) error {
	if days < 1 || days > maxLookbackDays {
		return domain.ErrInvalidDateRange
	}

	prefs := s.Get(ctx, chatID)
	prefs.LookbackDays = days
	return s.repo.Upsert(ctx, prefs)
}
