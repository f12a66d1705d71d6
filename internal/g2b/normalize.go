package g2b

import (
	"fmt"

	"github.com/narabot/narabot/internal/domain"
)

const (
	PlaceholderTitle = "제목 없음"
	PlaceholderOrg   = "기관명 없음"
	PlaceholderDate  = "-"
)

// fieldMap - имена полей апстрима для режима. Схема апстрима не жесткая:
// канонические имена режимов иногда перепутаны местами, иногда вместо них
// приходит общее имя продукта, отсюда цепочка altTitles.
type fieldMap struct {
	title     string
	altTitles []string
	org       string
	date      string
	dateLabel string
	link      string
}

var fieldMaps = map[domain.QueryMode]fieldMap{
	domain.BidNotice: {
		title:     "bidNtceNm",
		altTitles: []string{"bfSpecNm", "prdctClsfcNoNm", "bsnsDivNm"},
		org:       "dminsttNm",
		date:      "bidClseDt", // дата закрытия торгов
		dateLabel: "마감일",
		link:      "bidNtceDtlUrl",
	},
	domain.PreSpecNotice: {
		title:     "bfSpecNm",
		altTitles: []string{"bidNtceNm", "prdctClsfcNoNm", "bsnsDivNm"},
		org:       "dminsttNm",
		date:      "bfSpecRegDt", // дата регистрации спецификации
		dateLabel: "등록일",
		link:      "bfSpecDtlUrl",
	},
}

// Normalize сводит сырой успешный ответ к каноническим карточкам.
// Чистая функция: ноль результатов - пустой срез, не ошибка.
func Normalize(resp *Response, mode domain.QueryMode) []domain.Notice {
	fm, ok := fieldMaps[mode]
	if !ok || resp == nil || resp.Envelope == nil {
		return nil
	}

	items := resp.Envelope.Body.Items
	if len(items) == 0 {
		return nil
	}

	notices := make([]domain.Notice, 0, len(items))
	for _, it := range items {
		link := it.Str(fm.link)
		notices = append(notices, domain.Notice{
			Title:          resolveTitle(it, fm),
			Organization:   strOr(it, fm.org, PlaceholderOrg),
			EventDate:      FormatCompactDate(it.Str(fm.date)),
			EventDateLabel: fm.dateLabel,
			DetailURL:      link,
			HasLink:        link != "",
			Raw:            it,
		})
	}
	return notices
}

func resolveTitle(it Item, fm fieldMap) string {
	if v := it.Str(fm.title); v != "" {
		return v
	}
	for _, alt := range fm.altTitles {
		if v := it.Str(alt); v != "" {
			return v
		}
	}
	return PlaceholderTitle
}

func strOr(it Item, key, placeholder string) string {
	if v := it.Str(key); v != "" {
		return v
	}
	return placeholder
}

// FormatCompactDate переводит компактные даты апстрима в читаемый вид:
// 12 знаков (YYYYMMDDHHmm) -> "YYYY-MM-DD HH:MM", 8 знаков -> "YYYY-MM-DD",
// пусто -> "-". Все остальное отдается как пришло.
func FormatCompactDate(s string) string {
	switch len(s) {
	case 0:
		return PlaceholderDate
	case 12:
		return fmt.Sprintf("%s-%s-%s %s:%s", s[:4], s[4:6], s[6:8], s[8:10], s[10:12])
	case 8:
		return fmt.Sprintf("%s-%s-%s", s[:4], s[4:6], s[6:8])
	default:
		return s
	}
}
