package domain

import "errors"

var (
	// ErrFetchBlocked covers network failures, anti-bot denials and timeouts
	// while fetching the product page.
	ErrFetchBlocked = errors.New("fetch blocked")
	// ErrExtractionMiss means no strategy in the cascade found a rank.
	ErrExtractionMiss = errors.New("rank not found in page")

	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrAccessDenied       = errors.New("storage access denied")

	ErrInvalidManualInput = errors.New("invalid manual input")

	// ErrIndexMissing is returned by ordered history queries when the
	// timestamp index does not exist.
	ErrIndexMissing = errors.New("history timestamp index missing")
	ErrNotFound     = errors.New("not found")
)
