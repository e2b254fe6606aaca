package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusIdle      JobStatus = "idle"
	StatusRunning   JobStatus = "running"
	StatusSucceeded JobStatus = "succeeded"
	StatusFailed    JobStatus = "failed"
)

// TranslationJob tracks one subtitle file through a translation run. It is the
// transient state the front-end observes: while running it carries a progress
// percentage; terminal state is either a populated Result or a populated Err,
// never both.
type TranslationJob struct {
	ID        string
	InputPath string
	FileName  string
	Direction Direction
	Status    JobStatus
	Progress  int // 0-100
	Result    string
	Err       error
	CreatedAt time.Time
	DoneAt    *time.Time
}

func NewTranslationJob(inputPath string, dir Direction) *TranslationJob {
	return &TranslationJob{
		ID:        uuid.New().String(),
		InputPath: inputPath,
		FileName:  filepath.Base(inputPath),
		Direction: dir,
		Status:    StatusIdle,
		CreatedAt: time.Now(),
	}
}

// Start resets the job to a fresh running state. Any result or error from a
// previous run is discarded.
func (j *TranslationJob) Start() {
	j.Status = StatusRunning
	j.Progress = 0
	j.Result = ""
	j.Err = nil
	j.DoneAt = nil
}

// SetProgress updates the progress percentage. Progress never moves backwards
// within a run.
func (j *TranslationJob) SetProgress(percent int) {
	if percent > j.Progress {
		j.Progress = percent
	}
}

// Complete marks the job as succeeded with the serialized output.
func (j *TranslationJob) Complete(result string) {
	j.Status = StatusSucceeded
	j.Result = result
	j.Progress = 100
	now := time.Now()
	j.DoneAt = &now
}

// Fail marks the job as failed. The last progress value is kept for display.
func (j *TranslationJob) Fail(err error) {
	j.Status = StatusFailed
	j.Err = err
	j.Result = ""
	now := time.Now()
	j.DoneAt = &now
}

// OutputFileName returns the suggested name for the translated file:
// {original-name-without-extension}_translated_{direction-code}.srt
func (j *TranslationJob) OutputFileName() string {
	base := strings.TrimSuffix(j.FileName, filepath.Ext(j.FileName))
	return fmt.Sprintf("%s_translated_%s.srt", base, j.Direction.Code())
}

func (j *TranslationJob) StatusText() string {
	switch j.Status {
	case StatusIdle:
		return "Ready to translate"
	case StatusRunning:
		return fmt.Sprintf("Translating... %d%%", j.Progress)
	case StatusSucceeded:
		return "Completed!"
	case StatusFailed:
		if j.Err != nil {
			return "Failed: " + j.Err.Error()
		}
		return "Failed"
	default:
		return string(j.Status)
	}
}
