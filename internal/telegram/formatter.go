package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/narabot/narabot/internal/domain"
	"github.com/narabot/narabot/internal/g2b"
)

// TelegramMessageLimit - жесткий лимит телеграма на длину сообщения.
const TelegramMessageLimit = 4096

func FormatSearchResult(result *domain.SearchResult, mode domain.QueryMode) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "✅ <b>%s</b> 검색 결과: 총 %d건\n", mode.Label(), len(result.Notices))
	if result.FromCache {
		sb.WriteString("(최근 검색 결과를 재사용했습니다)\n")
	}
	sb.WriteString("\n")

	for i, n := range result.Notices {
		fmt.Fprintf(&sb, "%d. <b>[%s]</b> %s\n",
			i+1,
			html.EscapeString(n.Organization),
			html.EscapeString(n.Title),
		)
		fmt.Fprintf(&sb, "   📅 %s: %s\n", n.EventDateLabel, html.EscapeString(n.EventDate))
		if n.HasLink {
			fmt.Fprintf(&sb, "   🔗 <a href=\"%s\">상세보기</a>\n", html.EscapeString(n.DetailURL))
		} else {
			sb.WriteString("   링크 정보 없음\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func FormatEmptyResult() string {
	return "ℹ️ 조건에 맞는 결과가 없습니다. 기간이나 검색어를 변경해보세요."
}

// FormatAttemptTrail - диагностическая панель для /last: какой кандидат
// чем кончился. В основное сообщение об ошибке этот шум не попадает.
func FormatAttemptTrail(e *g2b.ExhaustedError) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>마지막 오류 상세</b> (%s)\n\n", e.Mode.Label())
	for i, a := range e.Attempts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, html.EscapeString(a.URL))
		if a.Err != nil {
			fmt.Fprintf(&sb, "   %s: %s\n", a.Kind, html.EscapeString(a.Err.Error()))
		} else {
			fmt.Fprintf(&sb, "   %s\n", a.Kind)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// уперлись в тег - ищем его конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}
