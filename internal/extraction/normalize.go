package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	edgeMarkerStartPattern  = regexp.MustCompile(`^[*_]{3,}`)
	edgeMarkerEndPattern    = regexp.MustCompile(`[*_]{3,}$`)
	whitespaceRunPattern    = regexp.MustCompile(`\s+`)
	spaceBeforePunctPattern = regexp.MustCompile(`\s+([.,!?;:])`)
	terminalPunctPattern    = regexp.MustCompile(`[.!?:]\s*$`)

	// Lines that open a new list item, sub-option or marker are never merged
	// into the previous line.
	listItemPattern     = regexp.MustCompile(`^[●○■□\-*\d+)]`)
	parenMarkerPattern  = regexp.MustCompile(`^\([A-Z\d]+\)`)
	letteredItemPattern = regexp.MustCompile(`^[a-f]\.\s`)
	bulletAfterSentence = regexp.MustCompile(`([.!?])\s*([●○■□\-])`)

	emphasisMarkerPattern = regexp.MustCompile(`\*{3,}`)
	blankFillPattern      = regexp.MustCompile(`_{6,}`)
	emphasisEdgeStart     = regexp.MustCompile(`^\*{1,2}\s*`)
	emphasisEdgeEnd       = regexp.MustCompile(`\s*\*{1,2}$`)
)

// CleanText collapses whitespace line by line, removes emphasis runs at line
// edges and merges soft-wrapped lines back into the line they continue.
// Applying it to its own output returns the same text.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	processed := make([]string, 0, len(lines))

	for i, raw := range lines {
		line := cleanLine(raw)
		if line == "" {
			// Blank input lines keep at most one separator; lines that only
			// held markers disappear.
			if strings.TrimSpace(raw) == "" && len(processed) > 0 && processed[len(processed)-1] != "" {
				processed = append(processed, "")
			}
			continue
		}

		last := i == len(lines)-1
		if !last && len(processed) > 0 && continuesLine(processed[len(processed)-1], line) {
			processed[len(processed)-1] += " " + line
			continue
		}
		processed = append(processed, line)
	}

	joined := strings.Join(processed, "\n")
	joined = bulletAfterSentence.ReplaceAllString(joined, "$1\n$2")
	return strings.TrimSpace(joined)
}

func cleanLine(line string) string {
	for {
		trimmed := strings.TrimSpace(line)
		trimmed = edgeMarkerStartPattern.ReplaceAllString(trimmed, "")
		trimmed = edgeMarkerEndPattern.ReplaceAllString(trimmed, "")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == line {
			break
		}
		line = trimmed
	}
	line = whitespaceRunPattern.ReplaceAllString(line, " ")
	line = spaceBeforePunctPattern.ReplaceAllString(line, "$1")
	return strings.TrimSpace(line)
}

func continuesLine(prev, line string) bool {
	if prev == "" || terminalPunctPattern.MatchString(prev) {
		return false
	}
	if listItemPattern.MatchString(line) || parenMarkerPattern.MatchString(line) || letteredItemPattern.MatchString(line) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLower(r)
}

// PreserveFormatting shortens emphasis runs to "**" and blank-fill runs to
// five underscores.
func PreserveFormatting(text string) string {
	text = emphasisMarkerPattern.ReplaceAllString(text, "**")
	return blankFillPattern.ReplaceAllString(text, "_____")
}

// StripLeadingNoise drops leading characters that are neither letters, digits
// nor an opening parenthesis. Letters outside ASCII are kept.
func StripLeadingNoise(text string) string {
	text = strings.TrimLeftFunc(text, func(r rune) bool {
		return r != '(' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.TrimSpace(text)
}

// NormalizeContent prepares a question stem or context for output.
func NormalizeContent(text string) string {
	return PreserveFormatting(CleanText(StripLeadingNoise(text)))
}

// NormalizeOption prepares one option text for output. Removing emphasis
// can expose a new marker at an edge, so it repeats until nothing changes.
func NormalizeOption(text string) string {
	for {
		next := normalizeOptionOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func normalizeOptionOnce(text string) string {
	text = strings.TrimSpace(text)
	text = emphasisEdgeStart.ReplaceAllString(text, "")
	text = emphasisEdgeEnd.ReplaceAllString(text, "")
	return PreserveFormatting(CleanText(text))
}
