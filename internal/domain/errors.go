package domain

import "errors"

var (
	ErrUpstreamFailed     = errors.New("upstream call failed")
	ErrRateLimitExhausted = errors.New("upstream rate limit retries exhausted")
	ErrDataMissing        = errors.New("upstream data missing")
	ErrRecordNotFound     = errors.New("record not found")
	ErrAmbiguousRecord    = errors.New("ambiguous record")
	ErrSchemaMissingField = errors.New("schema missing field")
	ErrWriteFailed        = errors.New("record write failed")
)
