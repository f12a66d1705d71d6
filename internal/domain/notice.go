package domain

// Notice - нормализованная карточка результата, одинаковая для обоих режимов.
// После конструирования не мутируется; Raw хранится только для диагностики.
type Notice struct {
	Title          string
	Organization   string
	EventDate      string // уже отформатирована, либо "-"
	EventDateLabel string // 마감일 / 등록일
	DetailURL      string
	HasLink        bool // отличает "нет ссылки" от пустого текста ссылки
	Raw            map[string]any
}

// SearchResult - итог одного поиска. Пустой Notices - валидный исход
// "ничего не нашлось", не ошибка.
type SearchResult struct {
	Notices   []Notice
	SourceURL string // эндпоинт, который реально ответил
	Attempt   int    // его номер в списке кандидатов (с нуля)
	FromCache bool
}

// ChatPrefs - настройки чата, переживающие рестарт.
type ChatPrefs struct {
	ChatID       int64
	DefaultMode  QueryMode
	Rows         int
	LookbackDays int
}

func DefaultPrefs(chatID int64) *ChatPrefs {
	return &ChatPrefs{
		ChatID:       chatID,
		DefaultMode:  BidNotice,
		Rows:         DefaultRows,
		LookbackDays: 7,
	}
}
