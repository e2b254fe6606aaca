package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"subtitle-translator/internal/subtitle"
	"subtitle-translator/models"
)

// fakeTranslator is a scriptable Translator for pipeline tests.
type fakeTranslator struct {
	calls     int
	batches   [][]string
	translate func(texts []string) ([]string, error)
}

func (f *fakeTranslator) CheckInstalled() error { return nil }

func (f *fakeTranslator) TranslateBatch(ctx context.Context, texts []string, dir models.Direction) ([]string, error) {
	f.calls++
	f.batches = append(f.batches, texts)
	if f.translate != nil {
		return f.translate(texts)
	}
	return texts, nil
}

func echoTranslator() *fakeTranslator {
	return &fakeTranslator{}
}

func upperTranslator() *fakeTranslator {
	return &fakeTranslator{translate: func(texts []string) ([]string, error) {
		out := make([]string, len(texts))
		for i, t := range texts {
			out[i] = strings.ToUpper(t)
		}
		return out, nil
	}}
}

func testConfig(batchSize int) *models.Config {
	cfg := models.DefaultConfig()
	cfg.BatchSize = batchSize
	cfg.BatchDelayMs = 0 // no throttle in tests
	return cfg
}

func srtDocument(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d\n00:00:%02d,000 --> 00:00:%02d,500\nLine %d\n\n", i, i%60, i%60, i)
	}
	return b.String()
}

func TestPipeline_Run_EchoProducesCanonicalInput(t *testing.T) {
	input := "1\r\n00:00:01,000 --> 00:00:02,000\r\nHello\r\n\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nWorld\r\n"

	p := NewPipeline(echoTranslator(), testConfig(30))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	if err := p.Run(context.Background(), job, input); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	canonical := subtitle.Format(subtitle.Parse(input))
	if job.Result != canonical {
		t.Errorf("echo result = %q, want canonicalized input %q", job.Result, canonical)
	}
	if job.Status != models.StatusSucceeded {
		t.Errorf("job status = %v, want succeeded", job.Status)
	}
	if job.Progress != 100 {
		t.Errorf("job progress = %d, want 100", job.Progress)
	}
}

func TestPipeline_Run_PreservesIndexAndTimecode(t *testing.T) {
	input := srtDocument(10)
	original := subtitle.Parse(input)

	p := NewPipeline(upperTranslator(), testConfig(4))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	if err := p.Run(context.Background(), job, input); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	translated := subtitle.Parse(job.Result)
	if len(translated) != len(original) {
		t.Fatalf("output has %d blocks, want %d", len(translated), len(original))
	}
	for i := range original {
		if translated[i].Index != original[i].Index {
			t.Errorf("block %d index = %q, want %q", i, translated[i].Index, original[i].Index)
		}
		if translated[i].Timecode != original[i].Timecode {
			t.Errorf("block %d timecode = %q, want %q", i, translated[i].Timecode, original[i].Timecode)
		}
		if translated[i].Text != strings.ToUpper(original[i].Text) {
			t.Errorf("block %d text = %q, want uppercase of %q", i, translated[i].Text, original[i].Text)
		}
	}
}

func TestPipeline_Run_EmptyInputFailsBeforeAnyCall(t *testing.T) {
	fake := echoTranslator()
	p := NewPipeline(fake, testConfig(30))
	job := models.NewTranslationJob("empty.srt", models.EnglishToFarsi)

	err := p.Run(context.Background(), job, "")
	if !errors.Is(err, ErrNoSubtitles) {
		t.Errorf("Run() error = %v, want ErrNoSubtitles", err)
	}
	if fake.calls != 0 {
		t.Errorf("translator called %d times for empty input, want 0", fake.calls)
	}
	if job.Status != models.StatusFailed {
		t.Errorf("job status = %v, want failed", job.Status)
	}
}

func TestPipeline_Run_ShortResponseKeepsOriginalText(t *testing.T) {
	// Translator returns only 2 entries for a 3-block batch.
	fake := &fakeTranslator{translate: func(texts []string) ([]string, error) {
		return []string{"AAA", "BBB"}, nil
	}}

	p := NewPipeline(fake, testConfig(30))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	if err := p.Run(context.Background(), job, srtDocument(3)); err != nil {
		t.Fatalf("Run() error = %v, short response must not fail the run", err)
	}

	blocks := subtitle.Parse(job.Result)
	if len(blocks) != 3 {
		t.Fatalf("output has %d blocks, want 3", len(blocks))
	}
	if blocks[0].Text != "AAA" || blocks[1].Text != "BBB" {
		t.Errorf("translated texts = %q, %q", blocks[0].Text, blocks[1].Text)
	}
	if blocks[2].Text != "Line 3" {
		t.Errorf("unmatched trailing block text = %q, want original 'Line 3'", blocks[2].Text)
	}
}

func TestPipeline_Run_BlankResponseEntryKeepsOriginalText(t *testing.T) {
	fake := &fakeTranslator{translate: func(texts []string) ([]string, error) {
		out := make([]string, len(texts))
		copy(out, texts)
		out[0] = "   "
		return out, nil
	}}

	p := NewPipeline(fake, testConfig(30))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	if err := p.Run(context.Background(), job, srtDocument(2)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	blocks := subtitle.Parse(job.Result)
	if blocks[0].Text != "Line 1" {
		t.Errorf("blank entry should fall back to original, got %q", blocks[0].Text)
	}
}

func TestPipeline_Run_AdapterErrorAbortsRun(t *testing.T) {
	serviceErr := serviceError("API error", errors.New("quota exceeded"))
	fake := &fakeTranslator{translate: func(texts []string) ([]string, error) {
		return nil, serviceErr
	}}

	p := NewPipeline(fake, testConfig(30))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	err := p.Run(context.Background(), job, srtDocument(5))
	if err == nil {
		t.Fatal("Run() should fail when the adapter errors")
	}

	var tse *TranslationServiceError
	if !errors.As(err, &tse) {
		t.Errorf("error type = %T, want *TranslationServiceError", err)
	}
	if job.Status != models.StatusFailed {
		t.Errorf("job status = %v, want failed", job.Status)
	}
	if job.Result != "" {
		t.Errorf("failed run must not carry a result, got %q", job.Result)
	}
	if fake.calls != 1 {
		t.Errorf("translator called %d times after fatal error, want 1", fake.calls)
	}
}

func TestPipeline_Run_ErrorOnLaterBatchDiscardsPartialResult(t *testing.T) {
	fake := &fakeTranslator{}
	fake.translate = func(texts []string) ([]string, error) {
		if fake.calls > 1 {
			return nil, serviceError("API error", errors.New("boom"))
		}
		return texts, nil
	}

	p := NewPipeline(fake, testConfig(2))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	if err := p.Run(context.Background(), job, srtDocument(6)); err == nil {
		t.Fatal("Run() should fail when a later batch errors")
	}
	if job.Result != "" {
		t.Error("partial progress must never be surfaced as a result")
	}
	// Progress from completed batches is retained for display.
	if job.Progress == 0 {
		t.Error("last known progress should be retained on failure")
	}
}

func TestPipeline_Run_ProgressSequence65Blocks(t *testing.T) {
	var reported []int
	p := NewPipeline(echoTranslator(), testConfig(30))
	p.SetProgressCallback(func(percent int) {
		reported = append(reported, percent)
	})

	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)
	if err := p.Run(context.Background(), job, srtDocument(65)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int{34, 67, 100}
	if len(reported) != len(want) {
		t.Fatalf("progress reported %v, want %v", reported, want)
	}
	for i := range want {
		if reported[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, reported[i], want[i])
		}
	}
}

func TestPipeline_Run_ProgressMonotonic(t *testing.T) {
	var reported []int
	p := NewPipeline(echoTranslator(), testConfig(3))
	p.SetProgressCallback(func(percent int) {
		reported = append(reported, percent)
	})

	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)
	if err := p.Run(context.Background(), job, srtDocument(20)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := 1; i < len(reported); i++ {
		if reported[i] < reported[i-1] {
			t.Errorf("progress decreased: %v", reported)
			break
		}
	}
	if len(reported) == 0 || reported[len(reported)-1] != 100 {
		t.Errorf("final progress = %v, want 100", reported)
	}
}

func TestPipeline_Run_BatchesAreSequentialAndOrdered(t *testing.T) {
	fake := echoTranslator()
	p := NewPipeline(fake, testConfig(4))
	job := models.NewTranslationJob("movie.srt", models.EnglishToFarsi)

	if err := p.Run(context.Background(), job, srtDocument(10)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if fake.calls != 3 {
		t.Fatalf("translator called %d times, want 3", fake.calls)
	}
	if fake.batches[0][0] != "Line 1" || fake.batches[1][0] != "Line 5" || fake.batches[2][0] != "Line 9" {
		t.Errorf("batches out of order: %v", fake.batches)
	}
}

func TestPipeline_SetProgressCallback_NilIsSafe(t *testing.T) {
	p := NewPipeline(echoTranslator(), testConfig(30))
	// No callback registered; must not panic.
	job := models.NewTranslationJob("movie.srt", models.FarsiToEnglish)
	if err := p.Run(context.Background(), job, srtDocument(1)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestBatchPercent(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{1, 3, 34},
		{2, 3, 67},
		{3, 3, 100},
		{1, 1, 100},
		{1, 2, 50},
		{1, 7, 15},
	}

	for _, tt := range tests {
		if got := batchPercent(tt.completed, tt.total); got != tt.want {
			t.Errorf("batchPercent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}
