package domain

import (
	"strings"
	"time"
)

const (
	MaxKeywordLength = 100
	MaxRows          = 999
	DefaultRows      = 30
)

// SearchRequest - один пользовательский поиск. Создается заново на каждый
// запрос и после использования не переиспользуется.
type SearchRequest struct {
	Mode    QueryMode
	Keyword string
	Begin   time.Time
	End     time.Time
	Rows    int
}

func (r *SearchRequest) Validate() error {
	if !r.Mode.IsValid() {
		return ErrUnknownMode
	}

	if strings.TrimSpace(r.Keyword) == "" {
		return ErrEmptyKeyword
	}
	if len(r.Keyword) > MaxKeywordLength {
		return ErrKeywordTooLong
	}

	// обе даты обязательны: полузаданный период - это ошибка, а не дефолт
	if r.Begin.IsZero() || r.End.IsZero() {
		return ErrInvalidDateRange
	}
	if r.Begin.After(r.End) {
		return ErrInvalidDateRange
	}

	if r.Rows < 1 || r.Rows > MaxRows {
		return ErrInvalidRows
	}

	return nil
}

func (r *SearchRequest) Sanitize() {
	r.Keyword = strings.TrimSpace(r.Keyword)
}
