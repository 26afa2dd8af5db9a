package extraction

import (
	"testing"

	"github.com/Epistemic-Technology/quizbank/models"
)

func sub(content string, options ...string) models.SubQuestion {
	var sq models.SubQuestion
	sq.Content = content
	copy(sq.Options[:], options)
	return sq
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		subs     []models.SubQuestion
		expected models.QuestionType
	}{
		{
			name: "every option is a letter sequence",
			subs: []models.SubQuestion{
				sub("a. Hi\nb. Hello", "a - b", "b - a", "a – a", "b-b"),
				sub("", "c - a - b", "a - b - c", "b - c - a", "c - b - a"),
			},
			expected: models.QuestionTypeReorder,
		},
		{
			name: "one non-sequence option disables reorder",
			subs: []models.SubQuestion{
				sub("", "a - b", "b - a", "a - a", "go"),
			},
			expected: models.QuestionTypeFillShort,
		},
		{
			name: "all stems present",
			subs: []models.SubQuestion{
				sub("Where does Tom live?", "a city", "a village", "a town", "a farm"),
				sub("Why?", "because it rains", "x", "y", "z"),
			},
			expected: models.QuestionTypeReading,
		},
		{
			name: "short phrase option",
			subs: []models.SubQuestion{
				sub("", "give up", "was giving up the habit", "has given up smoking", "gave it all up"),
			},
			expected: models.QuestionTypeFillShort,
		},
		{
			name: "only long options",
			subs: []models.SubQuestion{
				sub("", "went to the market", "has been to the market", "would go to market", "is going to market"),
				sub("Stem here", "which was built long ago", "that is very old", "who lives next door", "whose house is big"),
			},
			expected: models.QuestionTypeFillLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.subs)
			if got != tt.expected {
				t.Errorf("Classify() = %q, want %q", got, tt.expected)
			}
			if !got.Valid() {
				t.Errorf("Classify() returned unknown type %q", got)
			}
		})
	}
}
