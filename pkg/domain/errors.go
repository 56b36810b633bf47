package domain

import "errors"

// error taxonomy of the pipeline; fatal ones abort the run, the rest are recovered per article
var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrSourceUnavailable         = errors.New("news source unavailable")
	ErrSummarizationFailure      = errors.New("summarization failed")
	ErrCategorizationUnavailable = errors.New("categorization service unavailable")
	ErrMalformedCategorization   = errors.New("malformed categorization")
	ErrRender                    = errors.New("render failed")
)
