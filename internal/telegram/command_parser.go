package telegram

import (
	"strings"
	"time"

	"github.com/narabot/narabot/internal/domain"
)

// SearchArgs - разобранные аргументы поисковой команды:
// "키워드 [YYYYMMDD YYYYMMDD]". Даты опциональны, но только парой.
type SearchArgs struct {
	Keyword  string
	Begin    time.Time
	End      time.Time
	HasDates bool
}

// ParseSearchArgs снимает с хвоста пару 8-значных дат, остальное - ключевое
// слово. Одна дата без второй - ошибка, а не молчаливый дефолт.
func ParseSearchArgs(args string) (SearchArgs, error) {
	fields := strings.Fields(args)

	var dates []time.Time
	for len(fields) > 0 && len(dates) < 2 {
		last := fields[len(fields)-1]
		t, ok := parseCompactDate(last)
		if !ok {
			break
		}
		dates = append([]time.Time{t}, dates...)
		fields = fields[:len(fields)-1]
	}

	parsed := SearchArgs{Keyword: strings.Join(fields, " ")}

	switch len(dates) {
	case 0:
	case 2:
		parsed.Begin, parsed.End = dates[0], dates[1]
		parsed.HasDates = true
	default:
		return SearchArgs{}, domain.ErrInvalidDateRange
	}

	return parsed, nil
}

func parseCompactDate(s string) (time.Time, bool) {
	if len(s) != 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
