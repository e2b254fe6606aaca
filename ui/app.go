// Package ui implements the Fyne front-end: file picking, direction choice,
// progress display, and saving the translated result.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"subtitle-translator/internal/logger"
	"subtitle-translator/models"
	"subtitle-translator/services"
)

// MainUI is the main application UI.
type MainUI struct {
	window fyne.Window
	config *models.Config

	// Current file and run state
	content   string
	fileName  string
	direction models.Direction
	job       *models.TranslationJob

	// UI components
	fileLabel    *widget.Label
	dirSelect    *widget.Select
	apiKeyEntry  *widget.Entry
	translateBtn *widget.Button
	saveBtn      *widget.Button
	progressBar  *widget.ProgressBar
	statusLabel  *widget.Label
}

// NewMainUI creates the main application UI.
func NewMainUI(w fyne.Window) *MainUI {
	config, err := models.LoadConfig()
	if err != nil {
		logger.Warn("UI: failed to load config, using defaults: %v", err)
		config = models.DefaultConfig()
	}

	direction, err := models.DirectionFromCode(config.DefaultDirection)
	if err != nil {
		direction = models.EnglishToFarsi
	}

	return &MainUI{
		window:    w,
		config:    config,
		direction: direction,
	}
}

// Build creates the complete UI layout.
func (ui *MainUI) Build() fyne.CanvasObject {
	ui.fileLabel = widget.NewLabel("No file selected")
	ui.fileLabel.Truncation = fyne.TextTruncateEllipsis

	openBtn := widget.NewButton("Open SRT File...", ui.onOpenFile)

	labels := make([]string, 0, len(models.Directions()))
	for _, d := range models.Directions() {
		labels = append(labels, d.Label())
	}
	ui.dirSelect = widget.NewSelect(labels, ui.onDirectionChanged)
	ui.dirSelect.SetSelected(ui.direction.Label())

	ui.apiKeyEntry = widget.NewPasswordEntry()
	ui.apiKeyEntry.SetPlaceHolder("Gemini API key")
	ui.apiKeyEntry.SetText(ui.config.GeminiKey)
	ui.apiKeyEntry.OnChanged = func(key string) {
		ui.config.GeminiKey = strings.TrimSpace(key)
		if err := ui.config.Save(); err != nil {
			logger.Warn("UI: failed to save config: %v", err)
		}
	}

	ui.translateBtn = widget.NewButton("Translate", ui.onTranslate)
	ui.saveBtn = widget.NewButton("Save Translation...", ui.onSave)
	ui.saveBtn.Disable()

	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	return container.NewVBox(
		widget.NewLabelWithStyle("Subtitle Translator", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, openBtn, nil, ui.fileLabel),
		widget.NewForm(
			widget.NewFormItem("Direction", ui.dirSelect),
			widget.NewFormItem("API Key", ui.apiKeyEntry),
		),
		ui.translateBtn,
		ui.progressBar,
		ui.statusLabel,
		ui.saveBtn,
	)
}

func (ui *MainUI) onDirectionChanged(label string) {
	for _, d := range models.Directions() {
		if d.Label() == label {
			ui.direction = d
			ui.config.DefaultDirection = d.Code()
			if err := ui.config.Save(); err != nil {
				logger.Warn("UI: failed to save config: %v", err)
			}
			return
		}
	}
}

func (ui *MainUI) onOpenFile() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to read file: %w", err), ui.window)
			return
		}

		// Choosing a new source file resets the run state.
		ui.content = string(data)
		ui.fileName = reader.URI().Name()
		ui.job = nil
		ui.fileLabel.SetText(ui.fileName)
		ui.progressBar.SetValue(0)
		ui.statusLabel.SetText("")
		ui.saveBtn.Disable()
	}, ui.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".srt"}))
	fileDialog.Show()
}

func (ui *MainUI) onTranslate() {
	if ui.content == "" {
		dialog.ShowInformation("No File", "Please open a subtitle file to translate.", ui.window)
		return
	}
	if ui.job != nil && ui.job.Status == models.StatusRunning {
		dialog.ShowInformation("Already Running", "A translation is already in progress.", ui.window)
		return
	}

	gemini := services.NewGeminiService(ui.config.GeminiKey, ui.config.GeminiModel)
	if err := gemini.CheckInstalled(); err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	job := models.NewTranslationJob(ui.fileName, ui.direction)
	ui.job = job

	pipeline := services.NewPipeline(gemini, ui.config)
	pipeline.SetProgressCallback(func(percent int) {
		fyne.Do(func() {
			ui.progressBar.SetValue(float64(percent) / 100)
			ui.statusLabel.SetText(job.StatusText())
		})
	})

	ui.translateBtn.Disable()
	ui.saveBtn.Disable()
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText("Translating...")

	go func() {
		err := pipeline.Run(context.Background(), job, ui.content)

		fyne.Do(func() {
			ui.translateBtn.Enable()
			ui.statusLabel.SetText(job.StatusText())

			if err != nil {
				dialog.ShowError(err, ui.window)
				return
			}

			ui.progressBar.SetValue(1)
			ui.saveBtn.Enable()
		})
	}()
}

func (ui *MainUI) onSave() {
	if ui.job == nil || ui.job.Status != models.StatusSucceeded {
		return
	}
	job := ui.job

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write([]byte(job.Result)); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save file: %w", err), ui.window)
			return
		}
		ui.statusLabel.SetText("Saved " + writer.URI().Name())
	}, ui.window)
	saveDialog.SetFileName(job.OutputFileName())
	saveDialog.Show()
}

// GetWindow returns the main window.
func (ui *MainUI) GetWindow() fyne.Window {
	return ui.window
}
