// Package translation defines the interface the reconciliation pipeline uses
// to talk to a translation backend.
package translation

import (
	"context"

	"subtitle-translator/models"
)

// ProgressCallback is called as a run advances, with a percentage in [0,100].
type ProgressCallback func(percent int)

// Translator is the interface for batch translation backends.
type Translator interface {
	// CheckInstalled verifies the backend is configured and reachable enough
	// to attempt a run (e.g. an API key is present).
	CheckInstalled() error

	// TranslateBatch translates texts from the direction's source language to
	// its target language. The returned slice is expected to have the same
	// length and order as texts, but callers must tolerate short responses.
	// texts must be non-empty.
	TranslateBatch(ctx context.Context, texts []string, dir models.Direction) ([]string, error)
}
