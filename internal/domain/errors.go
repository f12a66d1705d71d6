package domain

import "errors"

var (
	ErrMissingCredential = errors.New("service key is not configured")
	ErrUnknownMode       = errors.New("unknown query mode")
)

var (
	ErrEmptyKeyword     = errors.New("empty keyword")
	ErrKeywordTooLong   = errors.New("keyword too long")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidRows      = errors.New("rows must be between 1 and 999")
)

var (
	ErrAllEndpointsFailed = errors.New("all endpoints failed")
	ErrNoResults          = errors.New("no results found")
)

var (
	ErrPrefNotFound = errors.New("chat preferences not found")
)
