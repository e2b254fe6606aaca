package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"subtitle-translator/ui"
)

func main() {
	a := app.New()

	w := a.NewWindow("Subtitle Translator")
	w.Resize(fyne.NewSize(520, 420))

	mainUI := ui.NewMainUI(w)
	w.SetContent(mainUI.Build())

	w.ShowAndRun()
}
