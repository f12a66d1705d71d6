package g2b

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/narabot/narabot/internal/domain"
)

type Config struct {
	ServiceKey string
	Timeout    time.Duration
	InquiryDiv string
}

// Client ходит в апстрим последовательно: один запрос за раз, одна попытка
// на кандидата, без ретраев и бэкоффа.
type Client struct {
	serviceKey string // уже декодирован
	inquiryDiv string
	endpoints  *Endpoints
	client     *http.Client
	logger     *zap.Logger
}

func New(cfg Config, endpoints *Endpoints, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.InquiryDiv == "" {
		cfg.InquiryDiv = "1"
	}

	// Портал data.go.kr выдает ключ уже percent-encoded; без ровно одного
	// декодирования он уезжает в апстрим закодированным дважды и молча не
	// матчится. Ключ, который декодировать не получилось, используем как есть.
	key, err := url.QueryUnescape(cfg.ServiceKey)
	if err != nil {
		key = cfg.ServiceKey
	}

	return &Client{
		serviceKey: key,
		inquiryDiv: cfg.InquiryDiv,
		endpoints:  endpoints,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Resolve перебирает кандидатов режима по порядку и возвращает первый
// структурно валидный успех. Все неудачи отдельных кандидатов глотаются
// и всплывают только агрегатом в ExhaustedError; немедленно фатальны
// лишь неизвестный режим и пустой список кандидатов.
func (c *Client) Resolve(ctx context.Context, req *domain.SearchRequest) (*Resolved, error) {
	if !req.Mode.IsValid() {
		return nil, domain.ErrUnknownMode
	}

	descriptors := c.endpoints.For(req.Mode)
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("no endpoints configured for mode %s", req.Mode)
	}

	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("numOfRows", fmt.Sprintf("%d", req.Rows))
	params.Set("pageNo", "1")
	params.Set("inqryDiv", c.inquiryDiv)
	// окно запроса: начало дня до конца дня, YYYYMMDDHHmm
	params.Set("inqryBgnDt", req.Begin.Format("20060102")+"0000")
	params.Set("inqryEndDt", req.End.Format("20060102")+"2359")
	params.Set("type", "json")

	attempts := make([]Attempt, 0, len(descriptors))

	for i, d := range descriptors {
		params.Set(d.SearchParam, req.Keyword)

		resp, attempt := c.tryEndpoint(ctx, d, params)
		params.Del(d.SearchParam)

		if attempt != nil {
			c.logger.Debug("endpoint attempt failed",
				zap.String("url", d.URL),
				zap.String("kind", string(attempt.Kind)),
				zap.Error(attempt.Err),
			)
			attempts = append(attempts, *attempt)

			if ctx.Err() != nil {
				// контекст умер - дальше перебирать бессмысленно
				break
			}
			continue
		}

		c.logger.Info("endpoint resolved",
			zap.String("mode", req.Mode.String()),
			zap.String("url", d.URL),
			zap.Int("attempt", i),
		)
		return &Resolved{Raw: resp, URL: d.URL, Attempt: i}, nil
	}

	return nil, &ExhaustedError{Mode: req.Mode, Attempts: attempts}
}

func (c *Client) tryEndpoint(ctx context.Context, d Descriptor, params url.Values) (*Response, *Attempt) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Attempt{URL: d.URL, Kind: AttemptNetwork, Err: err}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &Attempt{URL: d.URL, Kind: AttemptNetwork, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &Attempt{URL: d.URL, Kind: AttemptNetwork, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Attempt{URL: d.URL, Kind: AttemptStatus, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Attempt{URL: d.URL, Kind: AttemptDecode, Err: err}
	}

	if parsed.Envelope == nil {
		return nil, &Attempt{URL: d.URL, Kind: AttemptSchema, Err: fmt.Errorf("missing response envelope")}
	}

	// часть поколений апи не шлет header вовсе, поэтому отсутствие кода
	// трактуем как успех; явный не-"00" - бизнес-ошибка
	if code := parsed.Envelope.Header.ResultCode; code != "" && code != "00" {
		return nil, &Attempt{
			URL:  d.URL,
			Kind: AttemptBusiness,
			Err:  fmt.Errorf("resultCode %s: %s", code, parsed.Envelope.Header.ResultMsg),
		}
	}

	return &parsed, nil
}
