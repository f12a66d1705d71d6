package g2b

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/narabot/narabot/internal/domain"
)

// Descriptor - один кандидат: базовый URL операции и имя query-параметра,
// в котором этот эндпоинт ждет ключевое слово.
type Descriptor struct {
	URL         string `json:"url"`
	SearchParam string `json:"search_param"`
}

// Списки по умолчанию. Порядок = приоритет перебора: сначала то поколение
// путей, которое отвечало последним. Документация портала отстает от
// реальных путей, отсюда и перебор вместо одного "правильного" URL.
var defaultEndpoints = map[domain.QueryMode][]Descriptor{
	domain.BidNotice: {
		{
			URL:         "https://apis.data.go.kr/1230000/ad/BidPublicInfoService/getBidPblancListInfoServcPPSSrch",
			SearchParam: "bidNtceNm",
		},
		{
			URL:         "https://apis.data.go.kr/1230000/BidPublicInfoService02/getBidPblancListInfoServcPPSSrch",
			SearchParam: "bidNtceNm",
		},
	},
	domain.PreSpecNotice: {
		{
			URL:         "https://apis.data.go.kr/1230000/ao/PubcPreOnbidService/getBfSpecListInfoServcPPSSrch",
			SearchParam: "bfSpecNm",
		},
		{
			URL:         "https://apis.data.go.kr/1230000/BfSpecInfoService01/getBfSpecListInfoServcPPSSrch",
			SearchParam: "bfSpecNm",
		},
	},
}

// Endpoints - источник списков кандидатов. Либо вшитые дефолты, либо
// внешний JSON-файл, который перечитывается по mtime - список можно
// поменять без рестарта.
type Endpoints struct {
	mu      sync.Mutex
	path    string
	modTime time.Time
	lists   map[domain.QueryMode][]Descriptor
}

func DefaultEndpoints() *Endpoints {
	return &Endpoints{lists: defaultEndpoints}
}

// LoadEndpoints читает файл вида {"bid": [...], "prespec": [...]}.
// Ошибка на старте фатальна: кривой конфиг не должен молча превращаться
// в дефолты.
func LoadEndpoints(path string) (*Endpoints, error) {
	e := &Endpoints{path: path}
	if err := e.reload(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Endpoints) reload() error {
	fi, err := os.Stat(e.path)
	if err != nil {
		return fmt.Errorf("stat endpoints file: %w", err)
	}

	data, err := os.ReadFile(e.path)
	if err != nil {
		return fmt.Errorf("read endpoints file: %w", err)
	}

	var raw map[string][]Descriptor
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse endpoints file: %w", err)
	}

	lists := make(map[domain.QueryMode][]Descriptor, len(raw))
	for key, descs := range raw {
		mode, ok := domain.ParseMode(key)
		if !ok {
			return fmt.Errorf("endpoints file: unknown mode %q", key)
		}
		for i, d := range descs {
			if d.URL == "" || d.SearchParam == "" {
				return fmt.Errorf("endpoints file: mode %q entry %d incomplete", key, i)
			}
		}
		lists[mode] = descs
	}

	e.lists = lists
	e.modTime = fi.ModTime()
	return nil
}

// For возвращает список кандидатов режима. Если источник - файл и он
// изменился, список перечитывается; при ошибке перечитывания остается
// последняя рабочая версия.
func (e *Endpoints) For(mode domain.QueryMode) []Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.path != "" {
		if fi, err := os.Stat(e.path); err == nil && fi.ModTime().After(e.modTime) {
			_ = e.reload() // при ошибке держим предыдущий список
		}
	}

	return e.lists[mode]
}
