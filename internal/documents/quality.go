package documents

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractionQuality describes how usable a PDF text layer is.
type ExtractionQuality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// minWordlikeRatio flags letter-spaced text layers ("T o m  l i v e s"),
// which are printable but split every word into single runes.
const minWordlikeRatio = 0.3

// NeedsOCR reports whether the pages should be transcribed instead of
// trusting the text layer.
func (q *ExtractionQuality) NeedsOCR() bool {
	if q.PageCount == 0 {
		return false
	}
	sparse := q.CharsPerPage < 50 && (q.HasImageStreams || q.CharsPerPage == 0)
	shredded := q.CharsPerPage > 0 && q.WordlikeRatio < minWordlikeRatio
	return sparse || shredded || q.PrintableRatio < 0.85
}

// MeasureQuality scores extracted page texts.
func MeasureQuality(pages []string, hasImages bool) ExtractionQuality {
	full := strings.Join(pages, "\n")
	q := ExtractionQuality{
		PageCount:       len(pages),
		PrintableRatio:  computePrintableRatio(full),
		WordlikeRatio:   computeWordlikeRatio(full),
		HasImageStreams: hasImages,
	}
	if len(pages) > 0 {
		chars := 0
		for _, p := range pages {
			chars += utf8.RuneCountInString(strings.TrimSpace(p))
		}
		q.CharsPerPage = float64(chars) / float64(len(pages))
	}
	return q
}

func computePrintableRatio(text string) float64 {
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(printable) / float64(total)
}

func isGarbageRune(r rune) bool {
	// Private Use Area
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == utf8.RuneError {
		return true
	}
	return r < 0x0020 && r != '\n' && r != '\r' && r != '\t'
}

func computeWordlikeRatio(text string) float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	wordlike := 0
	for _, f := range fields {
		n := utf8.RuneCountInString(f)
		if n >= 2 && n <= 15 {
			wordlike++
		}
	}
	return float64(wordlike) / float64(len(fields))
}
