package domain

// QueryMode - какой из двух логических поисков выполняется.
// У каждого режима свой набор эндпоинтов и свои имена полей.
type QueryMode string

const (
	// BidNotice - 입찰공고 (tender announcements).
	BidNotice QueryMode = "bid"
	// PreSpecNotice - 사전규격 (pre-specification notices).
	PreSpecNotice QueryMode = "prespec"
)

func (m QueryMode) IsValid() bool {
	switch m {
	case BidNotice, PreSpecNotice:
		return true
	}
	return false
}

func (m QueryMode) String() string { return string(m) }

// Label - корейское название режима, как его видит пользователь.
func (m QueryMode) Label() string {
	switch m {
	case BidNotice:
		return "입찰공고"
	case PreSpecNotice:
		return "사전규격"
	default:
		return string(m)
	}
}

func ParseMode(s string) (QueryMode, bool) {
	switch s {
	case "bid", "입찰공고":
		return BidNotice, true
	case "prespec", "사전규격":
		return PreSpecNotice, true
	}
	return "", false
}
