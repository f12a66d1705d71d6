package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/narabot/narabot/internal/domain"
)

type PrefRepo struct {
	db *DB
}

func NewPrefRepo(db *DB) *PrefRepo {
	return &PrefRepo{db: db}
}

func (r *PrefRepo) Get(ctx context.Context, chatID int64) (*domain.ChatPrefs, error) {
	query := `
        SELECT chat_id, default_mode, rows_per_page, lookback_days
        FROM chat_prefs WHERE chat_id = $1
    `

	var (
		prefs domain.ChatPrefs
		mode  string
	)
	err := r.db.Pool.QueryRow(ctx, query, chatID).Scan(
		&prefs.ChatID,
		&mode,
		&prefs.Rows,
		&prefs.LookbackDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPrefNotFound
		}
		return nil, fmt.Errorf("get chat prefs: %w", err)
	}

	parsed, ok := domain.ParseMode(mode)
	if !ok {
		// битое значение в базе не должно ломать чат
		parsed = domain.BidNotice
	}
	prefs.DefaultMode = parsed

	return &prefs, nil
}

func (r *PrefRepo) Upsert(ctx context.Context, prefs *domain.ChatPrefs) error {
	query := `
        INSERT INTO chat_prefs (chat_id, default_mode, rows_per_page, lookback_days, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (chat_id) DO UPDATE SET
            default_mode = EXCLUDED.default_mode,
            rows_per_page = EXCLUDED.rows_per_page,
            lookback_days = EXCLUDED.lookback_days,
            updated_at = NOW()
    `

	_, err := r.db.Pool.Exec(ctx, query,
		prefs.ChatID,
		prefs.DefaultMode.String(),
		prefs.Rows,
		prefs.LookbackDays,
	)
	if err != nil {
		return fmt.Errorf("upsert chat prefs: %w", err)
	}
	return nil
}
