package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// hyperlinkPattern matches markdown links; the label is kept.
	hyperlinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

	// boldSplitNumberPattern and italicSplitNumberPattern match numbers that
	// the markdown conversion split across emphasis runs, e.g. "1**2**".
	boldSplitNumberPattern   = regexp.MustCompile(`(\d+)\s*\*\*\s*(\d+)\*\*`)
	italicSplitNumberPattern = regexp.MustCompile(`(\d+)\s*\*\s*(\d+)\*`)

	excessBlankLinesPattern = regexp.MustCompile(`\n{3,}`)

	// Emphasis left dangling at line edges after the conversion breaks a bold
	// run over several lines.
	lineEndEmphasisPattern   = regexp.MustCompile(`\*\*\s*\n`)
	lineStartEmphasisPattern = regexp.MustCompile(`\n\s*\*\*`)
	emphasisRunPattern       = regexp.MustCompile(`\*{3,}`)
)

// minBoilerplatePages is the fewest pages on which a repeated line can be
// told apart from ordinary content.
const minBoilerplatePages = 2

// Preprocessed is the output of the preprocessing stage.
type Preprocessed struct {
	Text        string
	AnswerKey   AnswerKey
	Boilerplate []string
}

// Preprocess cleans the document text and reads the answer key from the
// last page.
func Preprocess(doc *RawDocument) Preprocessed {
	pages := doc.Pages()
	for i, page := range pages {
		pages[i] = norm.NFC.String(page)
	}

	boilerplate := DetectBoilerplate(pages)
	text := RemoveBoilerplate(strings.Join(pages, "\n"), boilerplate)
	key := ParseAnswerKey(norm.NFC.String(doc.LastPage()))
	text = CleanNoise(text)
	text = StripEmphasisEdges(text)

	return Preprocessed{
		Text:        text,
		AnswerKey:   key,
		Boilerplate: boilerplate,
	}
}

// DetectBoilerplate returns the lines that occur at least once per page on
// average, in first-seen order and first-seen spelling. Lines are compared
// ignoring case; lines without any word character are ignored.
func DetectBoilerplate(pages []string) []string {
	if len(pages) < minBoilerplatePages {
		return nil
	}

	counts := make(map[string]int)
	first := make(map[string]string)
	var order []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if !hasWordChar(line) {
				continue
			}
			k := strings.ToLower(line)
			if counts[k] == 0 {
				first[k] = line
				order = append(order, k)
			}
			counts[k]++
		}
	}

	var repeated []string
	for _, k := range order {
		if counts[k] >= len(pages) {
			repeated = append(repeated, first[k])
		}
	}
	return repeated
}

// RemoveBoilerplate drops every line that contains one of the boilerplate
// lines, ignoring case, and collapses runs of blank lines.
func RemoveBoilerplate(text string, boilerplate []string) string {
	lowered := make([]string, 0, len(boilerplate))
	for _, b := range boilerplate {
		lowered = append(lowered, strings.ToLower(b))
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		candidate := strings.ToLower(strings.TrimSpace(line))
		if containsAny(candidate, lowered) {
			continue
		}
		kept = append(kept, line)
	}

	cleaned := strings.TrimSpace(strings.Join(kept, "\n"))
	return excessBlankLinesPattern.ReplaceAllString(cleaned, "\n\n")
}

// CleanNoise strips markdown hyperlinks down to their label and rejoins
// numbers split by emphasis markers.
func CleanNoise(text string) string {
	text = hyperlinkPattern.ReplaceAllString(text, "$1")
	text = boldSplitNumberPattern.ReplaceAllString(text, "${1}${2}")
	text = italicSplitNumberPattern.ReplaceAllString(text, "${1}${2}")
	return text
}

// StripEmphasisEdges removes bold markers that open or close a line and
// shortens longer emphasis runs to "**".
func StripEmphasisEdges(text string) string {
	text = lineEndEmphasisPattern.ReplaceAllString(text, "\n")
	text = lineStartEmphasisPattern.ReplaceAllString(text, "\n")
	return emphasisRunPattern.ReplaceAllString(text, "**")
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
