package g2b

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/narabot/narabot/internal/domain"
)

// Resolver перебирает эндпоинты-кандидаты режима и возвращает первый
// структурно валидный ответ апстрима.
type Resolver interface {
	Resolve(ctx context.Context, req *domain.SearchRequest) (*Resolved, error)
}

// Resolved - успешный исход: сырой ответ плюс какой именно кандидат сработал.
type Resolved struct {
	Raw     *Response
	URL     string
	Attempt int
}

// Item - сырой элемент ответа. Набор полей у апстрима плавает даже внутри
// одного режима, поэтому карта, а не структура.
type Item map[string]any

// Str достает строковое поле; числа (encoding/json отдает их как float64)
// приводятся к строке без экспоненты.
func (it Item) Str(key string) string {
	v, ok := it[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

type Header struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

type Body struct {
	Items      ItemList    `json:"items"`
	TotalCount json.Number `json:"totalCount"`
}

type Envelope struct {
	Header Header `json:"header"`
	Body   Body   `json:"body"`
}

// Response - контрактная часть ответа. Envelope - указатель: его отсутствие
// после декодирования и есть признак схемной ошибки.
type Response struct {
	Envelope *Envelope `json:"response"`
}

// ItemList терпит все формы, в которых апстрим отдает items: список,
// одиночный объект при ровно одном совпадении, null, "" и отсутствие поля.
type ItemList []Item

func (l *ItemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
	case '{':
		var it Item
		if err := json.Unmarshal(data, &it); err != nil {
			return err
		}
		*l = ItemList{it}
	case '"':
		// некоторые поколения апи шлют "" вместо null
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			return fmt.Errorf("unexpected items value %q", s)
		}
		*l = nil
	default:
		return fmt.Errorf("unexpected items token %q", data[0])
	}
	return nil
}

// AttemptKind - класс неудачи одной попытки.
type AttemptKind string

const (
	AttemptNetwork  AttemptKind = "network"  // таймаут, обрыв соединения
	AttemptStatus   AttemptKind = "status"   // HTTP не 200
	AttemptDecode   AttemptKind = "decode"   // тело не парсится
	AttemptSchema   AttemptKind = "schema"   // нет ключа response
	AttemptBusiness AttemptKind = "business" // resultCode != "00"
)

// Attempt - зафиксированная неудача одного кандидата. Наружу попадает
// только в составе ExhaustedError.
type Attempt struct {
	URL  string
	Kind AttemptKind
	Err  error
}

func (a Attempt) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", a.URL, a.Kind, a.Err)
	}
	return fmt.Sprintf("%s [%s]", a.URL, a.Kind)
}

// ExhaustedError - все кандидаты режима исчерпаны. Несет полный след
// попыток для диагностики; errors.Is(err, domain.ErrAllEndpointsFailed)
// работает через Unwrap.
type ExhaustedError struct {
	Mode     domain.QueryMode
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "all %d endpoints failed for mode %s", len(e.Attempts), e.Mode)
	for _, a := range e.Attempts {
		sb.WriteString("; ")
		sb.WriteString(a.String())
	}
	return sb.String()
}

func (e *ExhaustedError) Unwrap() error { return domain.ErrAllEndpointsFailed }
