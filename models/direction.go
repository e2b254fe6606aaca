package models

import "fmt"

// Direction is the (source language, target language) pair governing a
// translation run. Only the two constructors below are valid; the zero value
// is not a usable direction.
type Direction struct {
	code       string
	sourceLang string
	targetLang string
}

var (
	// EnglishToFarsi translates English subtitles into Farsi.
	EnglishToFarsi = Direction{code: "en-fa", sourceLang: "English", targetLang: "Farsi"}

	// FarsiToEnglish translates Farsi subtitles into English.
	FarsiToEnglish = Direction{code: "fa-en", sourceLang: "Farsi", targetLang: "English"}
)

// Directions lists every supported direction, in display order.
func Directions() []Direction {
	return []Direction{EnglishToFarsi, FarsiToEnglish}
}

// DirectionFromCode resolves a direction code ("en-fa" or "fa-en").
func DirectionFromCode(code string) (Direction, error) {
	for _, d := range Directions() {
		if d.code == code {
			return d, nil
		}
	}
	return Direction{}, fmt.Errorf("unknown translation direction: %q", code)
}

// Code returns the short form used in output filenames ("en-fa", "fa-en").
func (d Direction) Code() string { return d.code }

// SourceLang returns the human-readable source language name.
func (d Direction) SourceLang() string { return d.sourceLang }

// TargetLang returns the human-readable target language name.
func (d Direction) TargetLang() string { return d.targetLang }

// Label returns the display string shown in the direction selector.
func (d Direction) Label() string {
	return fmt.Sprintf("%s → %s", d.sourceLang, d.targetLang)
}

// IsValid reports whether d is one of the supported directions.
func (d Direction) IsValid() bool {
	return d.code != ""
}
