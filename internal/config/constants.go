// Package config provides centralized configuration and constants for the
// subtitle-translator application.
package config

import "time"

// Batching settings
const (
	// DefaultBatchSize is how many subtitle blocks go into one translation
	// request. The backend gets less reliable with very large payloads, so
	// smaller batches trade extra round trips for response robustness.
	DefaultBatchSize = 30

	// BatchDelay is the pause between consecutive batch requests, keeping
	// the request rate under the backend limit.
	BatchDelay = 500 * time.Millisecond
)

// Retry settings (transport level only; the pipeline itself never retries)
const (
	DefaultMaxRetries     = 3
	DefaultRetryDelayBase = time.Second
)

// HTTP client settings
const (
	HTTPTimeout             = 2 * time.Minute
	HTTPMaxIdleConns        = 10
	HTTPMaxIdleConnsPerHost = 10
	HTTPIdleConnTimeout     = 90 * time.Second
)

// Gemini API settings
const (
	GeminiAPIEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	GeminiModel       = "gemini-2.0-flash"

	TranslationTemperature = 0.3
	TranslationMaxTokens   = 8192
)
