package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/narabot/narabot/internal/domain"
	"github.com/narabot/narabot/internal/g2b"
)

type Handler struct {
	bot *Bot

	// след последнего исчерпания эндпоинтов на чат, для /last
	mu           sync.Mutex
	lastFailures map[int64]*g2b.ExhaustedError
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{
		bot:          bot,
		lastFailures: make(map[int64]*g2b.ExhaustedError),
	}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if !msg.IsCommand() {
		// обычный текст - поиск в режиме чата по умолчанию
		prefs := h.bot.prefService.Get(ctx, msg.Chat.ID)
		h.handleSearch(ctx, msg, prefs.DefaultMode, msg.Text)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "bid":
		h.handleSearch(ctx, msg, domain.BidNotice, msg.CommandArguments())
	case "prespec":
		h.handleSearch(ctx, msg, domain.PreSpecNotice, msg.CommandArguments())
	case "mode":
		h.handleMode(ctx, msg)
	case "rows":
		h.handleRows(ctx, msg)
	case "period":
		h.handlePeriod(ctx, msg)
	case "last":
		h.handleLast(ctx, msg)
	default:
		h.bot.Send(msg.Chat.ID, "알 수 없는 명령어입니다. /help 를 참고해주세요.")
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.Send(msg.Chat.ID,
		"📢 <b>나라장터 용역 정보 검색기</b>\n\n"+
			"입찰공고와 사전규격을 구분해서 검색할 수 있습니다.\n"+
			"검색어를 바로 보내거나 /help 로 사용법을 확인해보세요.")
}

func (h *Handler) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	helpText := `<b>사용법:</b>

/bid 검색어 - 입찰공고 검색
/prespec 검색어 - 사전규격 검색
검색어만 보내면 기본 유형으로 검색합니다.

기간을 직접 지정하려면 검색어 뒤에 시작일과 종료일을 붙여주세요:
/bid 디자인 20240401 20240408
기간을 생략하면 최근 N일을 검색합니다. (/period 로 변경)

<b>설정:</b>
/mode bid|prespec - 기본 검색 유형
/rows N - 표시 건수 (1~999)
/period N - 기본 검색 기간(일)

<b>기타:</b>
/last - 마지막 서버 오류 상세 보기

<b>예시:</b>
• 기획
• /prespec 인공지능
• /bid 디자인 20240401 20240408`

	h.bot.Send(msg.Chat.ID, helpText)
}

func (h *Handler) handleSearch(ctx context.Context, msg *tgbotapi.Message, mode domain.QueryMode, args string) {
	if !h.bot.rateLimiter.Allow(msg.Chat.ID) {
		resetTime := h.bot.rateLimiter.ResetTime(msg.Chat.ID)
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Time("reset_at", resetTime),
		)
		h.bot.RecordRateLimitHit()
		h.bot.Send(msg.Chat.ID, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	parsed, err := ParseSearchArgs(args)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err, mode))
		return
	}

	prefs := h.bot.prefService.Get(ctx, msg.Chat.ID)

	begin, end := parsed.Begin, parsed.End
	if !parsed.HasDates {
		// как в вебе: по умолчанию последние N дней
		end = time.Now()
		begin = end.AddDate(0, 0, -prefs.LookbackDays)
	}

	req := &domain.SearchRequest{
		Mode:    mode,
		Keyword: parsed.Keyword,
		Begin:   begin,
		End:     end,
		Rows:    prefs.Rows,
	}

	h.bot.SendTyping(msg.Chat.ID)

	result, err := h.bot.searchService.Search(ctx, req)
	if err != nil {
		h.rememberFailure(msg.Chat.ID, err)
		h.bot.logger.Error("search failed",
			zap.Error(err),
			zap.Int64("chat_id", msg.Chat.ID),
			zap.String("mode", mode.String()),
		)
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err, mode))
		return
	}

	if len(result.Notices) == 0 {
		h.bot.Send(msg.Chat.ID, FormatEmptyResult())
		return
	}

	for _, m := range SplitMessage(FormatSearchResult(result, mode), TelegramMessageLimit) {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func (h *Handler) handleMode(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	mode, ok := domain.ParseMode(arg)
	if !ok {
		h.bot.Send(msg.Chat.ID, "사용법: /mode bid 또는 /mode prespec")
		return
	}

	if err := h.bot.prefService.SetMode(ctx, msg.Chat.ID, mode); err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err, mode))
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("기본 검색 유형을 <b>%s</b>(으)로 변경했습니다.", mode.Label()))
}

func (h *Handler) handleRows(ctx context.Context, msg *tgbotapi.Message) {
	n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.bot.Send(msg.Chat.ID, "사용법: /rows 30")
		return
	}

	if err := h.bot.prefService.SetRows(ctx, msg.Chat.ID, n); err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err, ""))
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("표시 건수를 %d건으로 변경했습니다.", n))
}

func (h *Handler) handlePeriod(ctx context.Context, msg *tgbotapi.Message) {
	n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		h.bot.Send(msg.Chat.ID, "사용법: /period 7")
		return
	}

	if err := h.bot.prefService.SetLookback(ctx, msg.Chat.ID, n); err != nil {
		h.bot.Send(msg.Chat.ID, "검색 기간은 1~90일 사이로 지정해주세요.")
		return
	}

	h.bot.Send(msg.Chat.ID, fmt.Sprintf("기본 검색 기간을 최근 %d일로 변경했습니다.", n))
}

func (h *Handler) handleLast(ctx context.Context, msg *tgbotapi.Message) {
	h.mu.Lock()
	failure := h.lastFailures[msg.Chat.ID]
	h.mu.Unlock()

	if failure == nil {
		h.bot.Send(msg.Chat.ID, "기록된 오류가 없습니다.")
		return
	}

	h.bot.Send(msg.Chat.ID, FormatAttemptTrail(failure))
}

func (h *Handler) rememberFailure(chatID int64, err error) {
	var exhausted *g2b.ExhaustedError
	if !errors.As(err, &exhausted) {
		return
	}

	h.mu.Lock()
	h.lastFailures[chatID] = exhausted
	h.mu.Unlock()
}

func mapErrorToMessage(err error, mode domain.QueryMode) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "🚨 API 키가 설정되지 않았습니다. 관리자에게 문의해주세요."
	case errors.Is(err, domain.ErrEmptyKeyword):
		return "⚠️ 검색어를 입력해주세요!"
	case errors.Is(err, domain.ErrKeywordTooLong):
		return "검색어가 너무 깁니다. 100자 이내로 입력해주세요."
	case errors.Is(err, domain.ErrInvalidDateRange):
		return "📅 시작일과 종료일을 모두 입력해주세요. 예: 20240401 20240408"
	case errors.Is(err, domain.ErrInvalidRows):
		return "표시 건수는 1~999 사이로 지정해주세요."
	case errors.Is(err, domain.ErrUnknownMode):
		return "알 수 없는 검색 유형입니다. bid 또는 prespec 을 사용해주세요."
	case errors.Is(err, domain.ErrAllEndpointsFailed):
		text := "서버 연결에 실패했습니다. 잠시 후 다시 시도해주세요.\n" +
			"문제가 계속되면 API 키가 유효한지 확인해주세요. (/last 로 상세 보기)"
		if mode == domain.PreSpecNotice {
			// совет из веб-версии: у сайд-апи сначала надо включить подписку
			text += "\n\n💡 팁: '사전규격' 검색이 안 된다면 공공데이터포털에서 " +
				"[조달청_나라장터_사전규격정보] API 활용신청이 되어있는지 확인해주세요!"
		}
		return text
	default:
		return "오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	}
}
