package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when an external nutrition or recognition source fails or times out
	ErrSourceUnavailable = errors.New("nutrition source unavailable")

	// ErrNoMatch is returned when a source has no result for a query
	ErrNoMatch = errors.New("no matching food found")

	// ErrNoDetection is returned when no label survives the confidence threshold
	ErrNoDetection = errors.New("nothing recognized")

	// ErrInvalidInput is returned when request parameters are invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedSourceData is returned when a source record cannot be normalized
	ErrMalformedSourceData = errors.New("malformed source data")

	// ErrUnknownPlan is returned for an unrecognized subscription tier
	ErrUnknownPlan = errors.New("unknown plan tier")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRecognizerUnavailable is returned when image scans are requested but no recognizer is configured
	ErrRecognizerUnavailable = errors.New("image recognition not configured")
)
