package extraction

import (
	"regexp"
	"strings"

	"github.com/Epistemic-Technology/quizbank/models"
)

var (
	// reorderOption matches letter sequences such as "a - b" or "c – a – b".
	reorderOption = regexp.MustCompile(`^[a-f]\s*[–\-]\s*[a-f](?:\s*[–\-]\s*[a-f])*\s*$`)
	shortOption   = regexp.MustCompile(`^\s*[\p{L}\p{N}_]+(?:\s+[\p{L}\p{N}_]+)?\s*$`)
)

// Classify assigns a question type from the shape of a group's options and
// stems. Reorder wins when every option is a letter sequence; otherwise a
// group whose questions all have stems is reading; otherwise any one or two
// word option makes it fill_short.
func Classify(subs []models.SubQuestion) models.QuestionType {
	if len(subs) > 0 && allOptions(subs, isReorderOption) {
		return models.QuestionTypeReorder
	}

	reading := true
	for _, sq := range subs {
		if sq.Content == "" {
			reading = false
			break
		}
	}
	if reading {
		return models.QuestionTypeReading
	}

	for _, sq := range subs {
		for _, opt := range sq.Options {
			if shortOption.MatchString(opt) {
				return models.QuestionTypeFillShort
			}
		}
	}
	return models.QuestionTypeFillLong
}

func isReorderOption(opt string) bool {
	return reorderOption.MatchString(strings.TrimSpace(opt))
}

func allOptions(subs []models.SubQuestion, pred func(string) bool) bool {
	for _, sq := range subs {
		for _, opt := range sq.Options {
			if !pred(opt) {
				return false
			}
		}
	}
	return true
}
