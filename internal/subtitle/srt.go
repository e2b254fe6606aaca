// Package subtitle parses and writes SRT-style subtitle files as sequences of
// opaque blocks, and partitions block sequences into translation batches.
package subtitle

import (
	"os"
	"strings"

	"subtitle-translator/models"
)

// Parse splits SRT content into an ordered sequence of subtitle blocks.
//
// Line endings are normalized to "\n" first. Blocks are separated by runs of
// one or more blank lines; a candidate qualifies only if it has at least three
// lines: index, timecode, then one or more text lines (rejoined with "\n").
// Candidates with any empty field are silently dropped. Zero valid blocks is
// not an error here; the caller decides how to report that.
func Parse(content string) models.BlockList {
	content = normalizeNewlines(content)
	content = strings.TrimSpace(content)

	var blocks models.BlockList
	for _, candidate := range splitOnBlankLines(content) {
		lines := strings.Split(candidate, "\n")
		if len(lines) < 3 {
			continue
		}

		index := strings.TrimSpace(lines[0])
		timecode := strings.TrimSpace(lines[1])

		textLines := make([]string, 0, len(lines)-2)
		for _, line := range lines[2:] {
			textLines = append(textLines, strings.TrimSpace(line))
		}
		text := strings.TrimSpace(strings.Join(textLines, "\n"))

		if index == "" || timecode == "" || text == "" {
			continue
		}

		blocks = append(blocks, models.SubtitleBlock{
			Index:    index,
			Timecode: timecode,
			Text:     text,
		})
	}

	return blocks
}

// ParseFile parses an SRT file from the given path.
func ParseFile(path string) (models.BlockList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Format reconstructs SRT content from blocks: index line, timecode line, text,
// with exactly one blank line between consecutive blocks. Parsing the output
// yields the input blocks unchanged.
func Format(blocks models.BlockList) string {
	var builder strings.Builder
	for i, block := range blocks {
		builder.WriteString(block.Index)
		builder.WriteString("\n")
		builder.WriteString(block.Timecode)
		builder.WriteString("\n")
		builder.WriteString(block.Text)
		builder.WriteString("\n")

		// Blank line between entries
		if i < len(blocks)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// WriteFile writes blocks to an SRT file.
func WriteFile(path string, blocks models.BlockList) error {
	return os.WriteFile(path, []byte(Format(blocks)), 0644)
}

// Chunk partitions blocks into contiguous, order-preserving batches of at most
// size blocks each; the last batch may be smaller. Zero blocks yields zero
// batches. A non-positive size is treated as 1.
func Chunk(blocks models.BlockList, size int) []models.BlockList {
	if size <= 0 {
		size = 1
	}

	var batches []models.BlockList
	for i := 0; i < len(blocks); i += size {
		end := i + size
		if end > len(blocks) {
			end = len(blocks)
		}
		batches = append(batches, blocks[i:end])
	}
	return batches
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// splitOnBlankLines groups consecutive non-blank lines into candidates. Runs
// of multiple blank lines separate candidates the same way a single blank
// line does.
func splitOnBlankLines(content string) []string {
	var candidates []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			candidates = append(candidates, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return candidates
}
