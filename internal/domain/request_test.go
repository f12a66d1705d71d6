package domain

import (
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
	}{
		{
			name: "valid bid request",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: "디자인",
				Begin:   date(2024, 4, 1),
				End:     date(2024, 4, 8),
				Rows:    30,
			},
			wantErr: nil,
		},
		{
			name: "valid prespec request",
			req: SearchRequest{
				Mode:    PreSpecNotice,
				Keyword: "인공지능",
				Begin:   date(2024, 4, 1),
				End:     date(2024, 4, 8),
				Rows:    30,
			},
			wantErr: nil,
		},
		{
			name: "unknown mode",
			req: SearchRequest{
				Mode:    QueryMode("contract"),
				Keyword: "디자인",
				Begin:   date(2024, 4, 1),
				End:     date(2024, 4, 8),
				Rows:    30,
			},
			wantErr: ErrUnknownMode,
		},
		{
			name: "empty keyword",
			req: SearchRequest{
				Mode:  BidNotice,
				Begin: date(2024, 4, 1),
				End:   date(2024, 4, 8),
				Rows:  30,
			},
			wantErr: ErrEmptyKeyword,
		},
		{
			name: "whitespace keyword",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: "   ",
				Begin:   date(2024, 4, 1),
				End:     date(2024, 4, 8),
				Rows:    30,
			},
			wantErr: ErrEmptyKeyword,
		},
		{
			name: "keyword too long",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: strings.Repeat("a", MaxKeywordLength+1),
				Begin:   date(2024, 4, 1),
				End:     date(2024, 4, 8),
				Rows:    30,
			},
			wantErr: ErrKeywordTooLong,
		},
		{
			name: "missing begin date",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: "디자인",
				End:     date(2024, 4, 8),
				Rows:    30,
			},
			wantErr: ErrInvalidDateRange,
		},
		{
			name: "missing end date",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: "디자인",
				Begin:   date(2024, 4, 1),
				Rows:    30,
			},
			wantErr: ErrInvalidDateRange,
		},
		{
			name: "begin after end",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: "디자인",
				Begin:   date(2024, 4, 8),
				End:     date(2024, 4, 1),
				Rows:    30,
			},
			wantErr: ErrInvalidDateRange,
		},
		{
			name: "rows out of range",
			req: SearchRequest{
				Mode:    BidNotice,
				Keyword: "디자인",
				Begin:   date(2024, 4, 1),
				End:     date(2024, 4, 8),
				Rows:    1000,
			},
			wantErr: ErrInvalidRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in     string
		want   QueryMode
		wantOK bool
	}{
		{"bid", BidNotice, true},
		{"입찰공고", BidNotice, true},
		{"prespec", PreSpecNotice, true},
		{"사전규격", PreSpecNotice, true},
		{"contract", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
