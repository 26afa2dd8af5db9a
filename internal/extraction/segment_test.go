package extraction

import (
	"strings"
	"testing"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
)

type blockSummary struct {
	kind       BlockKind
	start, end int
}

func summarizeBlocks(blocks []Block) []blockSummary {
	out := make([]blockSummary, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockSummary{b.Kind, b.Start, b.End})
	}
	return out
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []blockSummary
	}{
		{
			name:     "reading passage",
			text:     readingText,
			expected: []blockSummary{{BlockReading, 5, 7}},
		},
		{
			name:     "reorder section is not taken by the fill family",
			text:     reorderText,
			expected: []blockSummary{{BlockReorder, 1, 2}},
		},
		{
			name:     "fill-shared section",
			text:     fillText,
			expected: []blockSummary{{BlockFillShared, 1, 2}},
		},
		{
			name:     "same range found by reading and fill-shared",
			text:     dedupText,
			expected: []blockSummary{{BlockReading, 1, 2}, {BlockFillShared, 1, 2}},
		},
		{
			name:     "fill lead-in wrapped across lines",
			text:     strings.Replace(fillText, "Choose the word", "Choose\nthe word", 1),
			expected: []blockSummary{{BlockFillShared, 1, 2}},
		},
		{
			name: "all-caps heading as fill lead-in",
			text: "FEELING\n(1) ______ happy, (2) ______ sad, from 1 to 2.\n" +
				"Question 1: A. be B. being C. been D. was\n" +
				"Question 2: A. not B. no C. nor D. none",
			expected: []blockSummary{{BlockFillShared, 1, 2}},
		},
		{
			name:     "declared end question missing",
			text:     strings.Replace(readingText, "Question 7.", "Item 7.", 1),
			expected: []blockSummary{},
		},
		{
			name:     "end question without all options",
			text:     strings.Replace(readingText, "D) never", "", 1),
			expected: []blockSummary{},
		},
		{
			name:     "reversed range",
			text:     strings.Replace(readingText, "from 5 to 7", "from 7 to 5", 1),
			expected: []blockSummary{},
		},
		{
			name:     "no structure",
			text:     "Just some prose without any questions.",
			expected: []blockSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarizeBlocks(Segment(tt.text))
			if len(got) != len(tt.expected) {
				t.Fatalf("Segment() found %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("block %d = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSegment_BlockBoundaries(t *testing.T) {
	text := readingText + "\n\nThis trailing paragraph belongs to no question."
	blocks := Segment(text)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	b := blocks[0]
	if !strings.HasPrefix(b.Text, "Read the following passage") {
		t.Errorf("block starts at %q", b.Text[:20])
	}
	if !strings.HasSuffix(b.Text, "D) never") {
		t.Errorf("block should end after the last option, got %q", b.Text[len(b.Text)-20:])
	}
	if !strings.HasPrefix(b.Body(), ".\nTom lives") {
		t.Errorf("body should start after the range declaration, got %q", b.Body()[:12])
	}
}

func TestSegment_BackToBackSections(t *testing.T) {
	text := `Read the following passage and answer the questions from 5 to 6.
Lan lives in Hue.
Question 5. Where does Lan live?
A. Hue
B. Hanoi
C. Vinh
D. Hoi An
Question 6. What is her name?
A. Lan
B. Mai
C. Hoa
D. Thu
Read the following text and answer the questions from 7 to 7.
Mai has a dog called Lucky.
Question 7. What animal does Mai have?
A. a cat
B. a dog
C. a bird
D. a fish`

	var reading []Block
	for _, b := range Segment(text) {
		if b.Kind == BlockReading {
			reading = append(reading, b)
		}
	}
	if len(reading) != 2 {
		t.Fatalf("expected 2 reading blocks, got %d", len(reading))
	}
	if !strings.HasSuffix(reading[0].Text, "D. Thu") {
		t.Errorf("first block should end with option D, got %q", reading[0].Text[len(reading[0].Text)-30:])
	}
	if reading[1].Start != 7 || reading[1].End != 7 {
		t.Errorf("second block range = %d-%d, want 7-7", reading[1].Start, reading[1].End)
	}

	questions := ParseQuestions(reading[0], nil, logger.NewNoOpLogger())
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if got := questions[1].Options[3]; got != "Thu" {
		t.Errorf("question 6 option D = %q, want %q", got, "Thu")
	}
}

func TestSegment_MultipleBlocksInOneFamily(t *testing.T) {
	second := strings.NewReplacer(
		"from 5 to 7", "from 8 to 9",
		"Question 5.", "Question 8.",
		"Question 6.", "Question 9.",
	).Replace(readingText)
	// Drop the third question so the second passage declares two.
	second = second[:strings.Index(second, "Question 7.")]

	blocks := Segment(readingText + "\n\n" + second)
	got := summarizeBlocks(blocks)
	// The passage sentence of the first group is a fill lead-in for the next
	// declaration, so the fill family reports 8-9 as well.
	want := []blockSummary{{BlockReading, 5, 7}, {BlockReading, 8, 9}, {BlockFillShared, 8, 9}}
	if len(got) != len(want) {
		t.Fatalf("Segment() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"one per line", "\nA. one\nB. two\nC. three\nD. four", true},
		{"inline parentheses", " A) x B) y C) z D) w", true},
		{"bold markers", "**A.** x **B.** y **C.** z **D.** w", true},
		{"missing C", "A. one B. two D. four", false},
		{"out of order", "B. two A. one C. three D. four", false},
		{"letters inside words", "USA. CAB. BBC. DVD.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := findOptions(tt.text); ok != tt.ok {
				t.Errorf("findOptions(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
		})
	}
}
