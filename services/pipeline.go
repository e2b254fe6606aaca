package services

import (
	"context"
	"strings"
	"time"

	"subtitle-translator/internal/config"
	"subtitle-translator/internal/logger"
	"subtitle-translator/internal/subtitle"
	"subtitle-translator/internal/translation"
	"subtitle-translator/models"
)

// Pipeline drives one subtitle document through a translation run: parse,
// chunk, translate batch by batch, merge translated text back onto the
// original blocks, serialize. Batches are processed strictly sequentially so
// progress is deterministic and the backend's rate limit is respected; no two
// requests for the same document are ever in flight at once.
type Pipeline struct {
	translator translation.Translator
	batchSize  int
	batchDelay time.Duration
	onProgress translation.ProgressCallback
}

// NewPipeline creates a pipeline using the batch settings from cfg.
func NewPipeline(translator translation.Translator, cfg *models.Config) *Pipeline {
	batchSize := config.DefaultBatchSize
	batchDelay := config.BatchDelay
	if cfg != nil {
		if cfg.BatchSize > 0 {
			batchSize = cfg.BatchSize
		}
		if cfg.BatchDelayMs >= 0 {
			batchDelay = time.Duration(cfg.BatchDelayMs) * time.Millisecond
		}
	}

	return &Pipeline{
		translator: translator,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// SetProgressCallback registers a callback invoked after each completed batch
// with the run's percentage so far.
func (p *Pipeline) SetProgressCallback(cb translation.ProgressCallback) {
	p.onProgress = cb
}

func (p *Pipeline) progress(percent int) {
	if p.onProgress != nil {
		p.onProgress(percent)
	}
}

// Run translates content in the job's direction and records the outcome on
// the job. On success the job holds the fully serialized output; on failure
// it holds the error and the last progress value reached. Errors abort the
// whole run; a partial result is never reported as success.
func (p *Pipeline) Run(ctx context.Context, job *models.TranslationJob, content string) error {
	job.Start()

	blocks := subtitle.Parse(content)
	if len(blocks) == 0 {
		job.Fail(ErrNoSubtitles)
		return ErrNoSubtitles
	}

	batches := subtitle.Chunk(blocks, p.batchSize)
	logger.Info("Pipeline: translating %d blocks in %d batches (%s)",
		len(blocks), len(batches), job.Direction.Code())

	translated := make(models.BlockList, 0, len(blocks))
	for i, batch := range batches {
		// Throttle between batches, not before the first.
		if i > 0 && p.batchDelay > 0 {
			select {
			case <-ctx.Done():
				job.Fail(ctx.Err())
				return ctx.Err()
			case <-time.After(p.batchDelay):
			}
		}

		result, err := p.translator.TranslateBatch(ctx, batch.Texts(), job.Direction)
		if err != nil {
			logger.Error("Pipeline: batch %d/%d failed: %v", i+1, len(batches), err)
			job.Fail(err)
			return err
		}

		translated = append(translated, mergeBatch(batch, result)...)

		percent := batchPercent(i+1, len(batches))
		job.SetProgress(percent)
		p.progress(percent)
		logger.Debug("Pipeline: batch %d/%d complete (%d%%)", i+1, len(batches), percent)
	}

	job.Complete(subtitle.Format(translated))
	logger.Info("Pipeline: run complete, %d blocks translated", len(blocks))
	return nil
}

// mergeBatch merges a batch response onto the original blocks by position.
// Index and timecode always come from the original block. A missing or blank
// entry keeps the original text; a short response degrades silently instead
// of failing the run.
func mergeBatch(batch models.BlockList, result []string) models.BlockList {
	merged := make(models.BlockList, len(batch))
	for j, block := range batch {
		text := block.Text
		if j < len(result) && strings.TrimSpace(result[j]) != "" {
			text = result[j]
		}
		merged[j] = models.SubtitleBlock{
			Index:    block.Index,
			Timecode: block.Timecode,
			Text:     text,
		}
	}
	return merged
}

// batchPercent maps completed-batch counts onto [0,100], rounding up so that
// progress is strictly positive after the first batch and exactly 100 at the
// end.
func batchPercent(completed, total int) int {
	return (100*completed + total - 1) / total
}
