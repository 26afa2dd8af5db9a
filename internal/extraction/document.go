package extraction

import "strings"

// RawDocument holds the page texts recovered from one source document.
// It is immutable once built.
type RawDocument struct {
	pages []string
	full  string
}

// NewRawDocument copies pages into a new document.
func NewRawDocument(pages []string) *RawDocument {
	copied := make([]string, len(pages))
	copy(copied, pages)
	return &RawDocument{
		pages: copied,
		full:  strings.Join(copied, "\n"),
	}
}

// PageCount returns the number of pages.
func (d *RawDocument) PageCount() int {
	return len(d.pages)
}

// Pages returns a copy of the page texts.
func (d *RawDocument) Pages() []string {
	out := make([]string, len(d.pages))
	copy(out, d.pages)
	return out
}

// FullText returns all pages joined by newlines.
func (d *RawDocument) FullText() string {
	return d.full
}

// LastPage returns the text of the final page, where answer keys live.
func (d *RawDocument) LastPage() string {
	if len(d.pages) == 0 {
		return ""
	}
	return d.pages[len(d.pages)-1]
}
