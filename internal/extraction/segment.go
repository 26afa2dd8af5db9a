package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlockKind identifies the pattern family that found a block. Lower values
// have higher priority when two families claim the same range.
type BlockKind int

const (
	BlockReading BlockKind = iota
	BlockFillShared
	BlockReorder
)

func (k BlockKind) String() string {
	switch k {
	case BlockReading:
		return "reading"
	case BlockFillShared:
		return "fill-shared"
	case BlockReorder:
		return "reorder"
	default:
		return "unknown"
	}
}

// Block is a span of cleaned text holding the questions Start..End.
type Block struct {
	Kind  BlockKind
	Start int
	End   int
	Text  string

	// bodyStart is the offset in Text just past the range declaration.
	bodyStart int
}

// Body returns the block text that follows its range declaration.
func (b Block) Body() string {
	return b.Text[b.bodyStart:]
}

var (
	readingLeadIn = regexp.MustCompile(`(?i)read\s+the\s+following\s+(?:passage|text|extract)`)
	readingPrefix = regexp.MustCompile(`(?i)^read\s+the\s+following\s+(?:passage|text|extract)`)

	// A capitalized word followed by one to five lowercase words, possibly
	// wrapped across lines, or an all-caps heading word ending its line.
	fillLeadIn       = regexp.MustCompile(`(?m)(?:^|[^\p{L}\p{N}_])(\p{Lu}\p{Ll}+(?:\s+\p{Ll}+){1,5}|\p{Lu}{2,}[ \t]*$)`)
	reorderSignature = regexp.MustCompile(`(?i)arrang(?:e|ed|ement|ing)|exchange`)

	reorderLeadIn  = regexp.MustCompile(`Mark\s+the\s+letter`)
	reorderKeyword = regexp.MustCompile(`arrangement|exchange|text`)

	rangePattern = regexp.MustCompile(`(?i)from\s+(\d+)\s+to\s+(\d+)`)

	// questionMarker matches "Question N" at the start of a line, allowing
	// leftover markdown before it.
	questionMarker = regexp.MustCompile(`(?mi)^[ \t*_#>]*Question[ \t]*(\d+)\b[ \t]*[:：.]?`)

	optionMarker = regexp.MustCompile(`([A-D])[.)]`)
	blankLine    = regexp.MustCompile(`\n[ \t]*\n`)
)

// family is one structural pattern: a lead-in phrase followed by a range
// declaration and the questions it announces.
type family struct {
	kind   BlockKind
	leadIn *regexp.Regexp
	// leadGroup selects the submatch holding the lead-in, 0 for the whole match.
	leadGroup int
	// rejectLeadIn skips a lead-in without consuming the range after it.
	rejectLeadIn func(lead string) bool
	// acceptInstruction checks the text between the lead-in and the range
	// declaration.
	acceptInstruction func(text string, leadStart, declStart int) bool
}

var families = []family{
	{
		kind:   BlockReading,
		leadIn: readingLeadIn,
	},
	{
		kind:      BlockFillShared,
		leadIn:    fillLeadIn,
		leadGroup: 1,
		rejectLeadIn: func(lead string) bool {
			return readingPrefix.MatchString(lead)
		},
		acceptInstruction: func(text string, leadStart, declStart int) bool {
			from := leadStart
			if p := strings.LastIndex(text[:declStart], "\n\n"); p > from {
				from = p
			}
			return !reorderSignature.MatchString(text[from:declStart])
		},
	},
	{
		kind:   BlockReorder,
		leadIn: reorderLeadIn,
		acceptInstruction: func(text string, leadStart, declStart int) bool {
			return reorderKeyword.MatchString(text[leadStart:declStart])
		},
	},
}

// Segment scans text with every pattern family in priority order and returns
// all candidate blocks, reading first, then fill-shared, then reorder.
// Candidates from different families may share a range.
func Segment(text string) []Block {
	var blocks []Block
	for _, f := range families {
		blocks = append(blocks, f.scan(text)...)
	}
	return blocks
}

func (f family) scan(text string) []Block {
	var blocks []Block
	pos := 0
	for pos < len(text) {
		m := f.leadIn.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		leadStart, leadEnd := pos+m[2*f.leadGroup], pos+m[2*f.leadGroup+1]
		if f.rejectLeadIn != nil && f.rejectLeadIn(text[leadStart:leadEnd]) {
			pos = leadEnd
			continue
		}

		// The lead-in may already contain the word "from".
		d := rangePattern.FindStringSubmatchIndex(text[leadStart:])
		if d == nil {
			break
		}
		declStart, declEnd := leadStart+d[0], leadStart+d[1]
		start, errStart := strconv.Atoi(text[leadStart+d[2] : leadStart+d[3]])
		end, errEnd := strconv.Atoi(text[leadStart+d[4] : leadStart+d[5]])
		pos = max(declEnd, leadEnd)

		if errStart != nil || errEnd != nil || start > end {
			continue
		}
		if f.acceptInstruction != nil && !f.acceptInstruction(text, leadStart, declStart) {
			continue
		}
		blockEnd, ok := closeBlock(text, declEnd, end)
		if !ok {
			continue
		}

		blocks = append(blocks, Block{
			Kind:      f.kind,
			Start:     start,
			End:       end,
			Text:      text[leadStart:blockEnd],
			bodyStart: declEnd - leadStart,
		})
		pos = blockEnd
	}
	return blocks
}

// closeBlock finds "Question last" after from and confirms that it carries
// all four options. The block ends with the line holding option D, or at the
// next question marker if that comes first.
func closeBlock(text string, from, last int) (int, bool) {
	markers := questionMarker.FindAllStringSubmatchIndex(text[from:], -1)
	for i, m := range markers {
		n, err := strconv.Atoi(text[from+m[2] : from+m[3]])
		if err != nil || n != last {
			continue
		}
		segEnd := len(text)
		if i+1 < len(markers) {
			segEnd = from + markers[i+1][0]
		}
		segStart := from + m[1]
		opts, ok := findOptions(text[segStart:segEnd])
		if !ok {
			return 0, false
		}
		dText := segStart + opts[3][1]
		return dText + lineEnd(text[dText:segEnd]), true
	}
	return 0, false
}

// findOptions locates the A, B, C and D markers in order. A marker must not
// directly follow a letter or digit.
func findOptions(s string) ([4][2]int, bool) {
	var found [4][2]int
	next := 0
	for _, m := range optionMarker.FindAllStringSubmatchIndex(s, -1) {
		if next == len(found) {
			break
		}
		if s[m[2]] != "ABCD"[next] {
			continue
		}
		if m[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(s[:m[0]])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		found[next] = [2]int{m[0], m[1]}
		next++
	}
	return found, next == len(found)
}

// lineEnd returns the offset of the line break ending the option text that
// starts s. An option whose text starts on the following line keeps that line.
func lineEnd(s string) int {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return len(s)
	}
	if strings.TrimSpace(s[:i]) != "" {
		return i
	}
	if j := strings.IndexByte(s[i+1:], '\n'); j >= 0 {
		return i + 1 + j
	}
	return len(s)
}
