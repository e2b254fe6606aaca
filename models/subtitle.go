package models

// SubtitleBlock is one caption unit from an SRT file. Index and Timecode are
// opaque strings: they are carried through translation byte-for-byte and are
// never parsed or validated.
type SubtitleBlock struct {
	Index    string
	Timecode string
	Text     string
}

type BlockList []SubtitleBlock

// Texts returns the text of every block, in playback order.
func (b BlockList) Texts() []string {
	texts := make([]string, len(b))
	for i, block := range b {
		texts[i] = block.Text
	}
	return texts
}
